package main

import (
	"flag"
	"log"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/practice-quiz/internal/domain/entity"
)

// init-sheet создает пустую книгу Excel со строкой заголовка, которую ожидает
// бэкенд xlsx. Полезно для локального банка вопросов без Google Sheets.
func main() {
	out := flag.String("out", "questions.xlsx", "path of the workbook to create")
	worksheet := flag.String("worksheet", "Sheet1", "worksheet name")
	force := flag.Bool("force", false, "overwrite an existing file")
	flag.Parse()

	if !*force {
		if _, err := os.Stat(*out); err == nil {
			log.Printf("File %s already exists, use -force to overwrite", *out)
			os.Exit(1)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if *worksheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", *worksheet); err != nil {
			log.Printf("Failed to rename worksheet: %v", err)
			os.Exit(1)
		}
	}

	for i, name := range entity.DefaultHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			log.Printf("Failed to resolve header cell: %v", err)
			os.Exit(1)
		}
		if err := f.SetCellValue(*worksheet, cell, name); err != nil {
			log.Printf("Failed to write header cell %s: %v", cell, err)
			os.Exit(1)
		}
	}

	if err := f.SaveAs(*out); err != nil {
		log.Printf("Failed to save workbook %s: %v", *out, err)
		os.Exit(1)
	}

	log.Printf("Created %s with worksheet %q and %d header columns", *out, *worksheet, len(entity.DefaultHeader))
}
