// Command places is a terminal harness for the address autocomplete session.
// Every line read from stdin is treated as the current contents of the
// address field; only the newest lookup is printed.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/kiatumarket/kiatu-backend/internal/address"
	"github.com/kiatumarket/kiatu-backend/pkg/config"
	"github.com/kiatumarket/kiatu-backend/pkg/logger"
	"github.com/kiatumarket/kiatu-backend/pkg/maps"
)

// lookupGrace keeps the process alive after stdin closes so the last lookup can print.
const lookupGrace = 5 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "places"})
	_ = godotenv.Load()

	var (
		mapsCfg         config.GoogleMapsConfig
		autocompleteCfg config.AutocompleteConfig
	)
	if err := config.LoadSections(&mapsCfg, &autocompleteCfg); err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	client, err := maps.NewClient(mapsCfg.APIKey, maps.WithRegion(mapsCfg.DefaultCountry), maps.WithLanguage(mapsCfg.Language))
	if err != nil {
		logg.Error(context.Background(), "failed to create places client", err)
		os.Exit(1)
	}
	svc, err := address.NewService(client, nil, mapsCfg.DefaultCountry, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sessionToken := uuid.NewString()
	lookup := func(ctx context.Context, query string) ([]address.Suggestion, error) {
		res, err := svc.Suggest(ctx, address.SuggestRequest{Query: query, SessionToken: sessionToken})
		if err != nil {
			return nil, err
		}
		return res.Suggestions, nil
	}

	session := address.NewAutocompleter(ctx, lookup, autocompleteCfg.Debounce, func(res address.LookupResult) {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "#%d %q: %v\n", res.Seq, res.Query, res.Err)
			return
		}
		fmt.Printf("#%d %q\n", res.Seq, res.Query)
		for _, s := range res.Suggestions {
			fmt.Printf("  %s  %s\n", s.PlaceID, s.Description)
		}
	})
	defer session.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	var drain <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-drain:
			return
		case line, ok := <-lines:
			if !ok {
				lines = nil
				drain = time.After(autocompleteCfg.Debounce + lookupGrace)
				continue
			}
			session.Type(line)
		}
	}
}
