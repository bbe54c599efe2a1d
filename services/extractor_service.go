package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// textExtensions are the file types read verbatim during ingestion.
var textExtensions = map[string]bool{
	".txt":    true,
	".md":     true,
	".py":     true,
	".cs":     true,
	".js":     true,
	".ts":     true,
	".go":     true,
	".json":   true,
	".yaml":   true,
	".yml":    true,
	".xml":    true,
	".shader": true,
}

// InitPDFLicense registers the UniDoc license key. PDF extraction fails per
// file without it; everything else is unaffected.
func InitPDFLicense(key string) {
	if key == "" {
		log.Println("EXTRACTOR: UNIDOC_LICENSE_KEY not set, PDF extraction will fail.")
		return
	}
	if err := license.SetMeteredKey(key); err != nil {
		log.Printf("EXTRACTOR: Failed to set UniDoc license key: %v. PDF extraction will fail.", err)
	}
}

// IsSupportedFile reports whether ingestion knows how to extract text from
// the file at path.
func IsSupportedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return textExtensions[ext] || ext == ".pdf"
}

// ExtractTextFromFile reads a file and returns its text content, handling
// each supported file type.
func ExtractTextFromFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case textExtensions[ext]:
		content, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(content), nil
	case ext == ".pdf":
		return extractTextFromPDF(path)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
}

// extractTextFromPDF uses UniPDF to get all text from a PDF file.
func extractTextFromPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return "", err
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return "", err
		}

		ex, err := extractor.New(page)
		if err != nil {
			return "", err
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
		sb.WriteString("\n\n") // space between pages
	}

	return sb.String(), nil
}
