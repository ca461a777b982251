// Package main generates markdown reference docs from the API's OpenAPI document.
package main

import (
	"flag"
	"fmt"
	"os"

	"sre-dashboard/internal/api"
	"sre-dashboard/internal/docsgen/openapi"
)

func main() {
	outDir := flag.String("outdir", "docs/reference/api", "output directory for generated docs")
	flag.Parse()

	if err := openapi.Generate(api.OpenAPIDoc(), *outDir); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: generate API docs: %v\n", err)
		os.Exit(1)
	}
}
