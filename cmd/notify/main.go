// Command notify re-sends the agency and customer emails of stored inquiries:
//
//	notify [-customer addr] [-agency addr] id...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"travel_inquiry/internal/adapters/mailer"
	"travel_inquiry/internal/adapters/observability"
	"travel_inquiry/internal/adapters/pdf"
	"travel_inquiry/internal/app"
	"travel_inquiry/internal/domain"
	"travel_inquiry/internal/shared"
	mysqlrepo "travel_inquiry/internal/storage/mysql"
)

type documents interface {
	Document(ctx context.Context, id int64) (domain.Document, error)
}

type notifier interface {
	Send(ctx context.Context, doc domain.Document, customerEmail, agencyEmail string) (app.Receipt, error)
}

func main() {
	ctx := context.Background()
	// logger first so config warnings are formatted
	log.Logger = observability.NewLogger(shared.AppEnv())
	cfg := shared.Load()

	customer := flag.String("customer", "", "send the customer copy here instead of the stored address")
	agency := flag.String("agency", "", "agency inbox (default AGENCY_EMAIL)")
	workers := flag.Int("workers", cfg.NotifyWorkers, "concurrent sends")
	flag.Parse()

	ids, err := parseIDs(flag.Args())
	if err != nil || len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "usage: notify [-customer addr] [-agency addr] [-workers n] id...")
		os.Exit(2)
	}

	db, err := mysqlrepo.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database open failed")
	}
	defer db.Close()

	renderer, err := pdf.New(cfg.PDFStrategy, cfg.GotenbergURL, cfg.RenderRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("pdf renderer init failed")
	}
	m, err := mailer.New(mailer.Config{
		Host: cfg.SMTPHost, Port: cfg.SMTPPort,
		Username: cfg.SMTPUser, Password: cfg.SMTPPass, From: cfg.SMTPFrom,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("smtp client init failed")
	}

	q := app.NewQueryService(mysqlrepo.New(db), nil, 0, cfg.Timezone)
	n := app.NewNotifyService(renderer, m, cfg.AgencyEmail)

	log.Info().Int("inquiries", len(ids)).Int("workers", *workers).Msg("resend starting")
	failed := resend(ctx, q, n, ids, *workers, *customer, *agency)
	log.Info().Int("failed", failed).Int("total", len(ids)).Msg("resend completed")
	if failed > 0 {
		os.Exit(1)
	}
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("bad inquiry id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// resend notifies each inquiry with at most workers sends in flight and
// returns how many did not fully go out.
func resend(ctx context.Context, q documents, n notifier, ids []int64, workers int, customer, agency string) int {
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("semaphore acquire failed")
			failed.Add(1)
			continue
		}

		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			defer sem.Release(1)

			doc, err := q.Document(ctx, id)
			if err != nil {
				failed.Add(1)
				log.Warn().Int64("id", id).Err(err).Msg("load failed")
				return
			}
			rc, err := n.Send(ctx, doc, customer, agency)
			if err != nil {
				failed.Add(1)
				log.Warn().
					Int64("id", id).
					AnErr(app.ChannelAgency, rc.AgencyErr).
					AnErr(app.ChannelCustomer, rc.CustomerErr).
					Msg("resend failed")
				return
			}
			log.Info().
				Int64("id", id).
				Str("agency_message_id", rc.AgencyMessageID).
				Str("customer_message_id", rc.CustomerMessageID).
				Msg("resend ok")
		}(id)
	}

	wg.Wait()
	return int(failed.Load())
}
