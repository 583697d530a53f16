package main

import (
	"flag"
	"log"
	"runtime"
	"sync"

	"github.com/weinstockj/parquet2bcf"
	"github.com/weinstockj/parquet2bcf/bcf"
)

func main() {
	path := flag.String("bcf", "", "Filename of the bcf file to process")
	flag.Parse()

	if *path == "" {
		flag.PrintDefaults()
		log.Fatalln("No bcf file found")
	}

	*path = parquet2bcf.ExpandHome(*path)

	b, err := bcf.Open(*path)
	if err != nil {
		log.Fatalln(err)
	}
	defer b.Close()
	contigs := b.Header.Contigs()

	// Prep the workers. The reader is not safe for concurrent use, so one
	// goroutine decodes and the workers only tally genotypes.
	records := make(chan *bcf.Record)
	output := make(chan CarrierCounter)

	var wg sync.WaitGroup
	log.Println("Launching", runtime.NumCPU(), "workers")
	for i := 0; i < runtime.NumCPU(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Worker(contigs, records, output)
		}()
	}
	go func() {
		wg.Wait()
		close(output)
	}()

	go func() {
		defer close(records)
		rr := b.NewRecordReader()
		for {
			rec := rr.Read()
			if rec == nil {
				break
			}
			if rr.RecordsSeen%1000 == 0 {
				log.Println("Processed", rr.RecordsSeen, "variants")
			}
			records <- rec
		}
		if rr.Error() != nil {
			log.Fatalln(rr.Error())
		}
	}()

	accumulator := CarrierCounter{}
	for o := range output {
		accumulator.Merge(o)
	}

	log.Println("Final accumulated stats")
	for _, c := range contigs {
		if n, ok := accumulator[c.ID]; ok {
			log.Printf("%s: %d carrier genotypes\n", c.ID, n)
		}
	}
}

// CarrierCounter tallies carrier genotypes per contig.
type CarrierCounter map[string]int

func (c CarrierCounter) Merge(o CarrierCounter) {
	for contig, n := range o {
		c[contig] += n
	}
}

func Worker(contigs []bcf.Contig, records <-chan *bcf.Record, output chan<- CarrierCounter) {
	for rec := range records {
		counter := CarrierCounter{}
		for _, gt := range rec.Genotypes {
			for _, allele := range gt {
				if allele.Index > 0 {
					counter[contigs[rec.RID].ID]++
					break
				}
			}
		}
		output <- counter
	}
}
