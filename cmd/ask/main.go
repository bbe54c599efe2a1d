// Command ask posts a question to a running ragserver and prints the answer.
//
//	ask -collection my-project "What does the ingestion pipeline do?"
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/vectormind/ragserver/models"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "Base URL of the ragserver")
	collection := flag.String("collection", "default", "Collection name")
	flag.Parse()

	question := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(question) == "" {
		fmt.Fprintln(os.Stderr, "usage: ask [-server URL] [-collection NAME] <question>")
		os.Exit(2)
	}

	payload, err := json.Marshal(models.QueryRequest{
		Question:   question,
		Collection: *collection,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	resp, err := http.Post(*server+"/api/query", "application/json", bytes.NewBuffer(payload))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Detail == "" {
			fmt.Fprintf(os.Stderr, "error: server returned status %d\n", resp.StatusCode)
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", errResp.Detail)
		}
		os.Exit(1)
	}

	var queryResp models.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		fmt.Fprintf(os.Stderr, "error: could not parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(queryResp.Answer)
}
