package main

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/events"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/logger"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const usage = `Usage: admin <command> [args]

Commands:
  list [status]                          list complaints, optionally by status
  set-status <admin-email> <id> <status> change a complaint's status
  respond <admin-email> <id> <text>      add an administrator response
  stats                                  print the analytics summary`

var errUsage = errors.New(usage)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if cfg.DBDriver == "" {
		log.Fatal().Msg("admin CLI needs a durable store: set DB_DRIVER and DB_DSN")
	}
	db, err := storage.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	s := storage.NewStorageService(db)

	labels, err := localization.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load translations")
	}

	// With redis configured, CLI changes reach connected browsers too.
	var pub events.Publisher
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
		pub = storage.NewRedisPublisher(rdb, config.EventsChannel)
	}

	if err := run(context.Background(), s, pub, labels, log, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("command failed")
	}
}

// run executes one CLI command against s. Mutations go through the complaint
// service so role and status rules apply exactly as they do over HTTP.
func run(ctx context.Context, s storage.Storage, pub events.Publisher, labels *localization.Localizer, log zerolog.Logger, args []string, out io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}
	svc := complaint.NewService(s, pub, log)

	switch args[0] {
	case "list":
		if len(args) > 2 {
			return errUsage
		}
		list, err := s.ListComplaints(ctx)
		if err != nil {
			return err
		}
		if len(args) == 2 {
			st := models.Status(args[1])
			if !st.Valid() {
				return fmt.Errorf("%w: %q", complaint.ErrInvalidStatus, args[1])
			}
			list = complaint.View(list, &models.User{Role: models.RoleAdmin}, complaint.Filter{Status: st})
		}
		return printList(out, labels, list)

	case "set-status":
		if len(args) != 4 {
			return errUsage
		}
		admin, err := lookupAdmin(ctx, s, args[1])
		if err != nil {
			return err
		}
		c, err := svc.SetStatus(ctx, admin, args[2], models.Status(args[3]))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Complaint %s is now %s.\n", c.ID, labels.Label(localization.DefaultLang, "status", string(c.Status)))
		return nil

	case "respond":
		if len(args) < 4 {
			return errUsage
		}
		admin, err := lookupAdmin(ctx, s, args[1])
		if err != nil {
			return err
		}
		text := strings.TrimSpace(strings.Join(args[3:], " "))
		if text == "" {
			return errUsage
		}
		c, err := svc.AddResponse(ctx, admin, args[2], text)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Response %s added to complaint %s.\n", c.Responses[len(c.Responses)-1].ID, c.ID)
		return nil

	case "stats":
		if len(args) != 1 {
			return errUsage
		}
		list, err := s.ListComplaints(ctx)
		if err != nil {
			return err
		}
		return printStats(out, labels, analysis.Summarize(list))
	}
	return errUsage
}

func lookupAdmin(ctx context.Context, s storage.Storage, email string) (*models.User, error) {
	u, err := s.FindUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no user with email %s", email)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func printList(out io.Writer, labels *localization.Localizer, list []models.Complaint) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCATEGORY\tDEPARTMENT\tCREATED\tTITLE")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID,
			labels.Label(localization.DefaultLang, "status", string(c.Status)),
			labels.Label(localization.DefaultLang, "category", string(c.Category)),
			labels.Label(localization.DefaultLang, "department", string(c.Department)),
			c.CreatedAt.Format(time.DateOnly),
			c.Title,
		)
	}
	return w.Flush()
}

func printStats(out io.Writer, labels *localization.Localizer, s analysis.Summary) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total\t%d\n", s.Total)
	fmt.Fprintf(w, "Resolved\t%d (%.0f%%)\n", s.Resolved, s.ResolutionRate()*100)
	fmt.Fprintf(w, "Pending\t%d\n", s.Pending)
	if s.RatedCount > 0 {
		fmt.Fprintf(w, "Average rating\t%.1f (%d rated)\n", s.AverageRating, s.RatedCount)
	}
	for _, st := range models.AllStatuses {
		fmt.Fprintf(w, "  %s\t%d\n", labels.Label(localization.DefaultLang, "status", string(st)), s.ByStatus[st])
	}

	// Busiest departments first.
	depts := append([]models.Department(nil), models.AllDepartments...)
	sort.SliceStable(depts, func(i, j int) bool { return s.ByDepartment[depts[i]] > s.ByDepartment[depts[j]] })
	for _, d := range depts {
		if s.ByDepartment[d] == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s\t%d\n", labels.Label(localization.DefaultLang, "department", string(d)), s.ByDepartment[d])
	}
	return w.Flush()
}
