package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	paymentModel "cowork/internal/domains/payment/model"
	"cowork/internal/wizard"
	"cowork/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const (
	flagAPI      = "api"
	flagToken    = "token"
	flagEmail    = "email"
	flagPassword = "password"
	flagRoom     = "room"
)

func main() {
	logger.InitLogger()

	app := &cli.App{
		Name:  "wizard",
		Usage: "book a coworking room from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagAPI, Value: "http://localhost:8080", EnvVars: []string{"WIZARD_API_URL"}, Usage: "booking API base URL"},
			&cli.StringFlag{Name: flagToken, EnvVars: []string{"WIZARD_TOKEN"}, Usage: "access token of an existing session"},
			&cli.StringFlag{Name: flagEmail, Usage: "log in with this email before booking"},
			&cli.StringFlag{Name: flagPassword, Usage: "password for --email"},
			&cli.Int64Flag{Name: flagRoom, Required: true, Usage: "id of the room to book"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("Wizard stopped")
	}
}

func run(c *cli.Context) error {
	ctx := c.Context
	client := wizard.NewClient(c.String(flagAPI), c.String(flagToken))

	var userID string

	if email := c.String(flagEmail); email != "" {
		login, err := client.Login(ctx, email, c.String(flagPassword))
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		client.SetToken(login.AccessToken)
		userID = login.User.ID

		fmt.Printf("Logged in as %s\n", login.User.Name)
	}

	room, err := client.Room(ctx, c.Int64(flagRoom))
	if err != nil {
		return fmt.Errorf("failed to load room: %w", err)
	}

	w := wizard.New(client, wizard.Room{ID: room.ID, Name: room.RoomName, Price: room.Price}, userID)
	p := &prompter{in: bufio.NewReader(os.Stdin), out: os.Stdout}

	fmt.Printf("Booking %s (Rp %d per day)\n", room.RoomName, room.Price)

	return drive(ctx, w, p)
}

// drive renders the current step and feeds the answers back until the guest is done or quits.
func drive(ctx context.Context, w *wizard.Wizard, p *prompter) error {
	for {
		if p.eof {
			return io.ErrUnexpectedEOF
		}

		switch w.State() {
		case wizard.StateCollectDetails:
			details := wizard.Details{
				Name:        p.ask("Company/Organization name"),
				Email:       p.ask("Email"),
				PhoneNumber: p.ask("Phone number"),
				StartDate:   p.ask("Start date (YYYY-MM-DD)"),
				EndDate:     p.ask("End date (YYYY-MM-DD)"),
			}

			if err := w.SubmitDetails(details); err != nil {
				p.say("! " + err.Error())
			}
		case wizard.StateSelectPayment:
			p.say(fmt.Sprintf("Total: Rp %d", w.Total()))

			for i, method := range wizard.PaymentMethods {
				p.say(fmt.Sprintf("  %d) %s", i+1, paymentModel.MethodDisplayName(method)))
			}

			answer := p.ask("Payment method (number, b to go back)")
			if answer == "b" {
				_ = w.Back()

				continue
			}

			if method, ok := pick(answer); ok {
				if err := w.SelectPayment(method); err != nil {
					p.say("! " + err.Error())

					continue
				}
			}

			if _, err := w.Confirm(ctx); err != nil && w.State() != wizard.StateFailed {
				p.say("! " + err.Error())
			}
		case wizard.StateDone:
			s := w.Summary()
			p.say(fmt.Sprintf("Booking confirmed! Booking ID: %s", s.Code))
			p.say(fmt.Sprintf("  %s <%s>", s.Name, s.Email))
			p.say(fmt.Sprintf("  %s, %s - %s (%d days)", s.Room, s.StartDate, s.EndDate, s.Days))
			p.say(fmt.Sprintf("  %s, Rp %d", s.PaymentMethod, s.Total))

			for _, booking := range w.MyBookings() {
				p.say(fmt.Sprintf("  my booking #%03d %s %s - %s", booking.ID, booking.Status, booking.StartDate, booking.EndDate))
			}

			return nil
		case wizard.StateFailed:
			p.say("Booking failed: " + w.LastError())

			switch p.ask("r to retry, anything else to cancel") {
			case "r":
				_ = w.Retry()
			default:
				_ = w.Reset()

				return nil
			}
		case wizard.StateConfirming:
			return wizard.ErrBusy
		}
	}
}

func pick(answer string) (string, bool) {
	var index int
	if _, err := fmt.Sscanf(answer, "%d", &index); err != nil || index < 1 || index > len(wizard.PaymentMethods) {
		return answer, answer != ""
	}

	return wizard.PaymentMethods[index-1], true
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
	eof bool
}

func (p *prompter) ask(label string) string {
	fmt.Fprintf(p.out, "%s: ", label)

	line, err := p.in.ReadString('\n')
	if err != nil {
		p.eof = true
	}

	return strings.TrimSpace(line)
}

func (p *prompter) say(line string) {
	fmt.Fprintln(p.out, line)
}
