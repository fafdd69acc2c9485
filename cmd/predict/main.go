package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/telephonyinc/incident-forecaster/internal/artifacts"
	"github.com/telephonyinc/incident-forecaster/internal/inference"
	"github.com/telephonyinc/incident-forecaster/internal/schema"
)

const dateLayout = "2006-01-02"

// An interactive loop over the same engine the server uses. Handy for
// sanity-checking freshly trained artifacts without standing up HTTP.
func main() {
	dataDir := flag.String("data", "./data", "directory holding the trained artifacts")
	flag.Parse()

	sc, scaler, m, err := artifacts.NewStore(*dataDir).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load artifacts from %s: %v\n", *dataDir, err)
		os.Exit(1)
	}

	ctx, err := inference.NewContext(sc, scaler, m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "artifacts are inconsistent: %v\n", err)
		os.Exit(1)
	}
	engine := inference.NewEngine(ctx)

	fmt.Printf("Loaded model with %d features and %d assignment groups.\n",
		sc.Len(), len(sc.Groups()))

	reader := bufio.NewReader(os.Stdin)
	for {
		date, ok := promptDate(reader)
		if !ok {
			return
		}

		group, ok := prompt(reader, "Assignment group: ")
		if !ok {
			return
		}

		dist, err := engine.Predict(date, group)
		if err != nil {
			var unknownErr *schema.UnknownCategoryError
			if errors.As(err, &unknownErr) {
				fmt.Printf("Unknown assignment group %q. Known groups:\n", unknownErr.Label)
				for _, g := range engine.Current().Schema.Groups() {
					fmt.Printf("  %s\n", g)
				}
			} else {
				fmt.Printf("Prediction failed: %v\n", err)
			}
		} else {
			printDistribution(date, group, dist)
		}

		again, ok := prompt(reader, "Another prediction? (yes/no): ")
		if !ok || !strings.EqualFold(again, "yes") && !strings.EqualFold(again, "y") {
			return
		}
	}
}

func prompt(reader *bufio.Reader, label string) (string, bool) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func promptDate(reader *bufio.Reader) (time.Time, bool) {
	for {
		raw, ok := prompt(reader, "Date (YYYY-MM-DD): ")
		if !ok {
			return time.Time{}, false
		}
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			fmt.Println("Invalid date format. Use YYYY-MM-DD.")
			continue
		}
		return date, true
	}
}

func printDistribution(date time.Time, group string, dist inference.Distribution) {
	fmt.Printf("\nPredicted priority split for %s on %s:\n", group, date.Format(dateLayout))
	for _, p := range schema.Priorities {
		fmt.Printf("  %s: %6.2f%%\n", p, dist[p])
	}
	fmt.Println()
}
