package main

import (
	"flag"
	"log"

	"github.com/weinstockj/parquet2bcf"
	"github.com/weinstockj/parquet2bcf/bcf"
)

func main() {
	path := flag.String("filename", "output.bcf", "Filename of the bcf file to process")
	limit := flag.Int("limit", 10, "Number of records and samples to print")
	flag.Parse()

	*path = parquet2bcf.ExpandHome(*path)

	b, err := bcf.Open(*path)
	if err != nil {
		log.Fatalln(err)
	}
	defer b.Close()

	log.Printf("%s: %d samples, %d contigs\n", b.FilePath, b.NSamples, b.NContigs)

	samples := b.Header.Samples()
	contigs := b.Header.Contigs()

	rr := b.NewRecordReader()
	for i := 1; ; i++ {
		rec := rr.Read()
		if rec == nil {
			break
		}
		if i > *limit {
			continue
		}

		log.Printf("Record %d) %s:%d %v\n", i, contigs[rec.RID].ID, rec.Pos+1, rec.Alleles)
		for j, gt := range rec.Genotypes {
			if j >= *limit {
				break
			}
			log.Printf("\t%s) %s\n", samples[j], gt)
		}
	}

	if rr.Error() != nil {
		log.Fatalln("Read error:", rr.Error())
	}
	log.Println("Read", rr.RecordsSeen, "records")
}
