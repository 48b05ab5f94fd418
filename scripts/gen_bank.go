// Generates a small well-formed question bank file for local testing.
//
// Usage: go run scripts/gen_bank.go [output.txt]
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gis_quiz_backend/internal/model"
)

func main() {
	out := "sample_bank.txt"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}

	lines := []string{
		fmt.Sprintf("1|%s|GIS stands for Geographic Information System|O", model.TypeTrueFalse),
		fmt.Sprintf("2|%s|Raster data is made of pixels|O", model.TypeTrueFalse),
		fmt.Sprintf("3|%s|Which format stores vector geometry?|2|1) GeoTIFF|2) Shapefile|3) NetCDF", model.TypeMultipleChoice),
		fmt.Sprintf("4|%s|Which datum does GPS use?|1|1) WGS84|2) Bessel|3) GRS80", model.TypeMultipleChoice),
		fmt.Sprintf("5|%s|The capital of South Korea is ___|Seoul", model.TypeShortBlank),
		fmt.Sprintf("6|%s|What does SRID abbreviate?|Spatial Reference System Identifier", model.TypeShortAcronym),
		fmt.Sprintf("7|%s|Name the open-source desktop GIS started in 2002|QGIS", model.TypeShortGeneral),
	}

	if err := os.WriteFile(out, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		log.Fatalf("cannot write %s: %v", out, err)
	}
	log.Printf("wrote %d questions to %s", len(lines), out)
}
