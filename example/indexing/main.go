package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/weinstockj/parquet2bcf"
	"github.com/weinstockj/parquet2bcf/bcf"
)

func main() {
	path := flag.String("bcf", "", "Filename of the bcf file to process")
	idxPath := flag.String("index", "", "Filename of the SQLite variant index written alongside the bcf")
	flag.Parse()

	if *path == "" || *idxPath == "" {
		flag.PrintDefaults()
		log.Fatalln("Both -bcf and -index are required")
	}

	*path = parquet2bcf.ExpandHome(*path)
	*idxPath = parquet2bcf.ExpandHome(*idxPath)

	log.Println("Opening bcf:", *path)
	b, err := bcf.Open(*path)
	if err != nil {
		log.Fatalln(err)
	}
	defer b.Close()

	log.Println("Using SQLite driver:", parquet2bcf.WhichSQLiteDriver())
	idx, err := parquet2bcf.OpenIndex(*idxPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer idx.Close()
	log.Printf("Index Metadata: %s\n", idx.Metadata)
	log.Printf("BCF data: %d samples, %d contigs\n", b.NSamples, b.NContigs)

	rows, err := idx.DB.Queryx("SELECT * FROM Variant ORDER BY record_index ASC")
	if err != nil {
		log.Fatalln(err)
	}
	defer rows.Close()

	// Walk the index and the file in lockstep; both are in write order.
	rr := b.NewRecordReader()
	i := 0
	var row parquet2bcf.VariantIndex
	for rows.Next() {
		if err := rows.StructScan(&row); err != nil {
			log.Fatalln(err)
		}
		rec := rr.Read()
		if rec == nil {
			log.Fatalln("Index lists more variants than the bcf holds:", rr.Error())
		}
		if int64(row.Position) != rec.Pos+1 || row.Allele1 != rec.Alleles[0] {
			log.Fatalf("Index row %d (%+v) disagrees with record at %d\n", i, row, rec.Pos+1)
		}
		if i%30 == 0 {
			fmt.Printf("%d) %+v\n", i, row)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		log.Fatalln(err)
	}

	log.Println("Saw indexes for", i, "variants")

	samples := b.Header.Samples()
	for j, sample := range samples {
		if j > 10 {
			break
		}
		fmt.Println(j, sample)
	}
	if len(samples) > 0 {
		log.Println("Saw up to", samples[len(samples)-1])
	}
}
