// relaycheck probes a relay node's health endpoint and exits non-zero when
// the node is unhealthy. It ships to every instance as a goasset bundle so
// operators and the startup scripts share one health probe.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

type healthReport struct {
	Target  string `json:"target"`
	Status  int    `json:"status"`
	Healthy bool   `json:"healthy"`
	Elapsed string `json:"elapsed"`
	Error   string `json:"error,omitempty"`
}

func main() {
	target := flag.String("target", "http://127.0.0.1:80/health", "health endpoint to probe")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	attempts := flag.Int("attempts", 3, "probe attempts before giving up")
	interval := flag.Duration("interval", 2*time.Second, "delay between attempts")
	flag.Parse()

	if *attempts < 1 {
		fmt.Fprintln(os.Stderr, "attempts must be at least 1")
		os.Exit(2)
	}

	client := &http.Client{Timeout: *timeout}
	report := probe(client, *target, *attempts, *interval)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "encode report: %v\n", err)
		os.Exit(2)
	}
	if !report.Healthy {
		os.Exit(1)
	}
}

func probe(client *http.Client, target string, attempts int, interval time.Duration) healthReport {
	report := healthReport{Target: target}
	start := time.Now()
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(interval)
		}
		resp, err := client.Get(target)
		if err != nil {
			report.Error = err.Error()
			continue
		}
		resp.Body.Close()
		report.Status = resp.StatusCode
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			report.Healthy = true
			report.Error = ""
			break
		}
		report.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	report.Elapsed = time.Since(start).Round(time.Millisecond).String()
	return report
}
