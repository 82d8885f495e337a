// Command booker finds and books leisure centre slots from the command line.
// Results are printed to stdout as JSON; logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/nekogravitycat/slot-booker/internal/activity"
	"github.com/nekogravitycat/slot-booker/internal/app"
	"github.com/nekogravitycat/slot-booker/internal/booking"
	"github.com/nekogravitycat/slot-booker/internal/config"
	"github.com/nekogravitycat/slot-booker/internal/logging"
	"github.com/nekogravitycat/slot-booker/internal/pkg/apperror"
	"github.com/nekogravitycat/slot-booker/internal/site"
	"github.com/nekogravitycat/slot-booker/internal/workflow"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type mode int

const (
	modeFindAndBook mode = iota
	modeListActivities
	modeClubBooking
	modeFetchSlots
	modeMintToken
)

type options struct {
	mode mode

	activityID  int
	daysAhead   int
	daysSet     bool // -days-ahead given explicitly
	days        int
	windowStart string
	windowEnd   string
	dryRun      bool
	locationID  int
	subject     string
}

var errUsage = errors.New("usage")

func parseOptions(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("booker", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		opts       options
		listActs   bool
		clubBook   bool
		fetchSlots bool
		mint       bool
	)
	fs.BoolVar(&listActs, "list-activities", false, "list every activity at every location")
	fs.BoolVar(&clubBook, "club-booking", false, "run the recurring club booking")
	fs.BoolVar(&fetchSlots, "fetch-slots", false, "export timetable slots")
	fs.BoolVar(&mint, "mint-api-token", false, "print a signed API token for -subject")
	fs.IntVar(&opts.activityID, "activity-id", 0, "activity to book or filter by")
	fs.IntVar(&opts.daysAhead, "days-ahead", 0, "days ahead of today")
	fs.IntVar(&opts.days, "days", 3, "days of timetable to export with -fetch-slots")
	fs.StringVar(&opts.windowStart, "window-start", "", "earliest slot start, HH:MM (24h)")
	fs.StringVar(&opts.windowEnd, "window-end", "", "latest slot start, HH:MM (24h); at or before -window-start runs past midnight")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "select a slot and print the booking request without sending it")
	fs.IntVar(&opts.locationID, "location-id", 0, "restrict to one location")
	fs.StringVar(&opts.subject, "subject", "", "API client name for -mint-api-token")

	if err := fs.Parse(args); err != nil {
		return opts, errUsage
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "days-ahead" {
			opts.daysSet = true
		}
	})

	selected := 0
	for m, on := range map[mode]bool{
		modeListActivities: listActs,
		modeClubBooking:    clubBook,
		modeFetchSlots:     fetchSlots,
		modeMintToken:      mint,
	} {
		if on {
			opts.mode = m
			selected++
		}
	}
	if selected > 1 {
		return opts, errors.New("-list-activities, -club-booking, -fetch-slots and -mint-api-token are mutually exclusive")
	}

	switch opts.mode {
	case modeClubBooking:
		if opts.windowStart == "" || opts.windowEnd == "" {
			return opts, errors.New("missing required arguments for club booking: -window-start and -window-end")
		}
	case modeFetchSlots:
		if opts.days < 1 {
			return opts, errors.New("-days must be at least 1")
		}
	case modeMintToken:
		if opts.subject == "" {
			return opts, errors.New("missing required argument for token minting: -subject")
		}
	case modeFindAndBook:
		if opts.activityID == 0 || !opts.daysSet || opts.windowStart == "" || opts.windowEnd == "" {
			return opts, errors.New("missing required arguments for booking flow: -activity-id, -days-ahead, -window-start and -window-end")
		}
	}
	if opts.daysAhead < 0 {
		return opts, errors.New("-days-ahead must not be negative")
	}
	return opts, nil
}

// execute runs one mode and writes its JSON output. The returned code is the process exit code.
func execute(ctx context.Context, opts options, c *app.Container, stdout io.Writer, logger *zap.Logger) int {
	var (
		out any
		err error
	)

	switch opts.mode {
	case modeListActivities:
		out, err = c.ActivityService.List(ctx, activity.Filter{LocationID: opts.locationID})

	case modeFetchSlots:
		var slots []site.Slot
		slots, err = c.BookingService.FetchSlots(ctx, booking.SlotQuery{
			DaysAhead:  opts.daysAhead,
			Days:       opts.days,
			ActivityID: opts.activityID,
			LocationID: opts.locationID,
		})
		if slots == nil {
			slots = []site.Slot{}
		}
		out = slots

	case modeClubBooking:
		req := workflow.ClubRequest{
			WindowStart: opts.windowStart,
			WindowEnd:   opts.windowEnd,
			DryRun:      opts.dryRun,
		}
		if opts.daysSet {
			req.DaysAhead = &opts.daysAhead
		}
		out, err = c.WorkflowService.ClubBooking(ctx, req)

	case modeMintToken:
		out, err = mintToken(c, opts.subject)

	default:
		out, err = c.BookingService.FindAndBook(ctx, booking.FindRequest{
			ActivityID:  opts.activityID,
			DaysAhead:   opts.daysAhead,
			WindowStart: opts.windowStart,
			WindowEnd:   opts.windowEnd,
			DryRun:      opts.dryRun,
			LocationID:  opts.locationID,
		})
	}

	if err != nil {
		logger.Error("operation failed",
			zap.String("kind", string(apperror.KindOf(err))),
			zap.String("step", apperror.StepOf(err)),
			zap.Error(err),
		)
		return exitError
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("failed to write output", zap.Error(err))
		return exitError
	}

	if res, ok := out.(*booking.Result); ok && res.Outcome == booking.OutcomeFailed {
		return exitError
	}
	return exitOK
}

type tokenOutput struct {
	Subject string `json:"subject"`
	Token   string `json:"token"`
}

func mintToken(c *app.Container, subject string) (*tokenOutput, error) {
	if c.JWTManager == nil {
		return nil, apperror.New(apperror.KindConfiguration, http.StatusInternalServerError, "API_JWT_SECRET must be set to mint tokens")
	}
	token, err := c.JWTManager.GenerateAccessToken(subject)
	if err != nil {
		return nil, err
	}
	return &tokenOutput{Subject: subject, Token: token}, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, "booker:", err)
		}
		return exitUsage
	}

	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return exitError
	}

	logger, err := logging.New(cfg.IsProduction, cfg.LogLevel)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()

	container := app.NewContainer(app.Config{Settings: cfg, Logger: logger})
	return execute(ctx, opts, container, stdout, logger)
}
