// Command console is the operator terminal for the field-booking platform.
// It logs in against the remote API, then runs a line-based command loop
// over the console views and the booking creation wizard.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/minhthien1995/booking-football-cms/internal/config"
	"github.com/minhthien1995/booking-football-cms/internal/console"
	"github.com/minhthien1995/booking-football-cms/internal/diagnostics"
	"github.com/minhthien1995/booking-football-cms/internal/fieldapi"
	"github.com/minhthien1995/booking-football-cms/internal/notifications"
	"github.com/minhthien1995/booking-football-cms/internal/observability/metrics"
	"github.com/minhthien1995/booking-football-cms/internal/realtime"
	"github.com/minhthien1995/booking-football-cms/internal/session"
	"github.com/minhthien1995/booking-football-cms/internal/wizard"
	"github.com/minhthien1995/booking-football-cms/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "console:", err)
		os.Exit(1)
	}
}

func run() error {
	godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting console", "env", cfg.Env, "api", cfg.APIBaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiMetrics := metrics.NewAPIMetrics(nil)
	wizardMetrics := metrics.NewWizardMetrics(nil)
	realtimeMetrics := metrics.NewRealtimeMetrics(nil)

	client := fieldapi.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, nil, apiMetrics, logger)

	in := bufio.NewScanner(os.Stdin)
	sess, err := login(ctx, client, in)
	if err != nil {
		return err
	}
	client.SetTokenSource(sess)
	fmt.Printf("Logged in as %s (%s)\n", sess.Admin().FullName, sess.Admin().Role)
	if sess.ExpiresWithin(time.Hour, time.Now()) {
		fmt.Println("Warning: session token expires within the hour.")
	}

	feed := notifications.NewFeed(cfg.FeedSize)
	ui := console.New(client, feed, os.Stdout, logger)

	var listener *realtime.Listener
	if cfg.EnableRealtime {
		listener = realtime.NewListener(cfg.RealtimeURL, func(ev realtime.Event) {
			if payload, ok := realtime.DecodeNewBooking(ev); ok {
				feed.Add(fmt.Sprintf("New booking: %s at %s", payload.CustomerName, payload.FieldName))
			}
		}, realtime.Options{
			ReconnectBase: cfg.ReconnectBase,
			ReconnectMax:  cfg.ReconnectMax,
		}, realtimeMetrics, logger)
		go listener.Run(ctx)
		defer listener.Close()
	}

	diag := diagnostics.NewServer(cfg.DiagnosticsAddr, logger)
	diag.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		diag.Shutdown(shutdownCtx)
	}()

	loop(ctx, ui, client, wizardMetrics, feed, in, logger)
	return nil
}

func login(ctx context.Context, client *fieldapi.Client, in *bufio.Scanner) (*session.Session, error) {
	for {
		email := prompt(in, "Email: ")
		if email == "q" {
			return nil, errors.New("login aborted")
		}
		password := prompt(in, "Password: ")
		if password == "q" {
			return nil, errors.New("login aborted")
		}
		if email == "" || password == "" {
			fmt.Println("Email and password are required.")
			continue
		}
		res, err := client.Login(ctx, email, password)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			fmt.Println("Login failed:", loginMessage(err))
			continue
		}
		return session.New(res.Token, res.User), nil
	}
}

func loginMessage(err error) string {
	if errors.Is(err, fieldapi.ErrNotAdmin) {
		return "this account has no admin access"
	}
	return err.Error()
}

const helpText = `Commands:
  dashboard | bookings | fields | roles | admins | reports   switch view
  filter <status> [payment] [search...]                      filter bookings
  book <fieldID>                                             open booking wizard
  confirm <bookingID> | complete <bookingID>                 update status
  paid <bookingID>                                           mark paid
  cancel <bookingID>                                         cancel booking
  addfield | editfield <fieldID> | delfield <fieldID>        manage fields
  bell                                                       show notifications
  help | quit`

func loop(ctx context.Context, ui *console.Console, client *fieldapi.Client, wm *metrics.WizardMetrics, feed *notifications.Feed, in *bufio.Scanner, logger *logging.Logger) {
	view := console.ViewDashboard
	bookingFilter := console.BookingFilter{}

	render := func() {
		if err := ui.Render(ctx, view, bookingFilter, console.FieldFilter{}); err != nil {
			fmt.Println("Error:", err)
		}
	}
	render()

	for {
		line := prompt(in, "> ")
		if ctx.Err() != nil {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit", "q":
			return
		case "help":
			fmt.Println(helpText)
		case "bell":
			showNotifications(feed)
		case "filter":
			bookingFilter = parseBookingFilter(args[1:])
			view = console.ViewBookings
			render()
		case "book":
			if len(args) < 2 {
				fmt.Println("Usage: book <fieldID>")
				continue
			}
			runWizard(ctx, ui, client, wm, in, args[1], logger)
		case "confirm", "complete":
			applyID(args, func(id int64) error {
				status := "confirmed"
				if args[0] == "complete" {
					status = "completed"
				}
				return ui.UpdateBookingStatus(ctx, id, status)
			})
			render()
		case "paid":
			applyID(args, func(id int64) error {
				return ui.UpdatePaymentStatus(ctx, id, "paid")
			})
			render()
		case "cancel":
			applyID(args, func(id int64) error {
				return ui.CancelBooking(ctx, id)
			})
			render()
		case "addfield":
			fin, ok := promptFieldInput(in)
			if !ok {
				continue
			}
			created, err := ui.CreateField(ctx, fin)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("Field #%d created.\n", created.ID)
			view = console.ViewFields
			render()
		case "editfield":
			applyID(args, func(id int64) error {
				fin, ok := promptFieldInput(in)
				if !ok {
					return nil
				}
				return ui.UpdateField(ctx, id, fin)
			})
			view = console.ViewFields
			render()
		case "delfield":
			applyID(args, func(id int64) error {
				return ui.DeleteField(ctx, id)
			})
			view = console.ViewFields
			render()
		default:
			v, err := console.ParseView(args[0])
			if err != nil {
				fmt.Println("Unknown command. Type 'help'.")
				continue
			}
			view = v
			bookingFilter = console.BookingFilter{}
			render()
		}
	}
}

func parseBookingFilter(args []string) console.BookingFilter {
	f := console.BookingFilter{}
	if len(args) > 0 && args[0] != "-" {
		f.Status = args[0]
	}
	if len(args) > 1 && args[1] != "-" {
		f.PaymentStatus = args[1]
	}
	if len(args) > 2 {
		f.Search = strings.Join(args[2:], " ")
	}
	return f
}

func applyID(args []string, fn func(int64) error) {
	if len(args) < 2 {
		fmt.Println("An id is required.")
		return
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("Invalid id:", args[1])
		return
	}
	if err := fn(id); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Done.")
}

// promptFieldInput collects a field payload interactively. Returns false when
// the operator aborts.
func promptFieldInput(in *bufio.Scanner) (fieldapi.FieldInput, bool) {
	name := prompt(in, "Field name: ")
	if name == "q" || name == "" {
		return fieldapi.FieldInput{}, false
	}
	fieldType := prompt(in, "Type (5vs5/7vs7/11vs11): ")
	location := prompt(in, "Location: ")
	price, err := strconv.ParseFloat(prompt(in, "Price per hour: "), 64)
	if err != nil || price <= 0 {
		fmt.Println("A positive hourly price is required.")
		return fieldapi.FieldInput{}, false
	}
	active := prompt(in, "Active? [y/n]: ") != "n"
	return fieldapi.FieldInput{
		Name:         name,
		FieldType:    fieldType,
		Location:     location,
		PricePerHour: price,
		IsActive:     active,
	}, true
}

func showNotifications(feed *notifications.Feed) {
	entries := feed.Recent(10)
	if len(entries) == 0 {
		fmt.Println("No notifications.")
		return
	}
	for _, n := range entries {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s %s  %s\n", marker, n.ReceivedAt.Format("15:04:05"), n.Message)
	}
	feed.MarkAllRead()
}

// runWizard drives the three-stage booking flow over stdin prompts.
func runWizard(ctx context.Context, ui *console.Console, client *fieldapi.Client, wm *metrics.WizardMetrics, in *bufio.Scanner, fieldArg string, logger *logging.Logger) {
	fieldID, err := strconv.ParseInt(fieldArg, 10, 64)
	if err != nil {
		fmt.Println("Invalid field id:", fieldArg)
		return
	}
	field, err := client.GetField(ctx, fieldID)
	if err != nil {
		fmt.Println("Error loading field:", err)
		return
	}
	if !field.IsActive {
		fmt.Printf("Field %s is inactive and cannot be booked.\n", field.Name)
		return
	}

	w := wizard.New(*field, client, ui.AddBooking, wm, logger)
	fmt.Printf("Booking %s (%s, %.0f/hour). Enter 'q' at any prompt to cancel.\n",
		field.Name, field.FieldType, field.PricePerHour)

	for {
		switch w.Stage() {
		case wizard.StageTimeSelection:
			date := prompt(in, "Date (YYYY-MM-DD): ")
			start := prompt(in, "Start (HH:MM): ")
			end := prompt(in, "End (HH:MM): ")
			if date == "q" || start == "q" || end == "q" {
				w.Cancel()
				return
			}
			if err := w.SetSchedule(date, start, end); err != nil {
				fmt.Println(err)
				continue
			}
			d := w.Draft()
			fmt.Printf("Duration %.1fh, total %.0f\n", d.Duration, d.TotalPrice)
			if err := w.Advance(); err != nil {
				fmt.Println(err)
			}

		case wizard.StageCustomerInfo:
			phone := prompt(in, "Customer phone: ")
			name := prompt(in, "Customer name: ")
			if phone == "q" || name == "q" {
				w.Cancel()
				return
			}
			if err := w.SetCustomer(phone, name); err != nil {
				fmt.Println(err)
				continue
			}
			if err := w.Advance(); err != nil {
				fmt.Println(err)
			}

		case wizard.StageReview:
			d := w.Draft()
			fmt.Printf("Review: %s %s-%s, %s (%s), total %.0f\n",
				d.BookingDate, d.StartTime, d.EndTime, d.CustomerName, d.CustomerPhone, d.TotalPrice)
			switch prompt(in, "[s]ubmit / [n]otes / [b]ack / [q]uit: ") {
			case "s":
				out, err := w.Submit(ctx)
				if err != nil {
					fmt.Println(err)
					continue
				}
				switch out.Kind {
				case wizard.OutcomeSuccess:
					fmt.Println(out.ConfirmationMessage())
				case wizard.OutcomeConflict:
					fmt.Println(out.ConflictMessage())
				case wizard.OutcomeValidationErrors, wizard.OutcomeGenericFailure:
					fmt.Println(out.Message)
				}
			case "n":
				if err := w.SetNotes(prompt(in, "Notes: ")); err != nil {
					fmt.Println(err)
				}
			case "b":
				if err := w.Back(); err != nil {
					fmt.Println(err)
				}
			case "q":
				w.Cancel()
				return
			}

		default:
			return
		}
	}
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		return "q"
	}
	return strings.TrimSpace(in.Text())
}
