// statusprobe is a small client for the logger's status endpoints, handy
// for checking a running daemon from the command line or a cron health job.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	base := flag.String("base", "http://localhost:8080", "Base URL of the occupancy logger")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	ok := true
	for _, path := range []string{"/healthz", "/api/status"} {
		if err := probe(client, *base+path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			ok = false
		}
	}
	if !ok {
		os.Exit(1)
	}
}

func probe(client *http.Client, url string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	fmt.Printf("%s\n%s\n", url, string(body))
	return nil
}
