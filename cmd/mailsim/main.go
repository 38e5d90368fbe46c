// Command mailsim drives the mailbox simulator from the command line:
// seed the default user, send a message, search a mailbox, or run the
// label verifier (§6's CLI surface).
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"mailsim/config"
	"mailsim/core/service/mailbox"
	"mailsim/internal/bootstrap"
	"mailsim/pkg/logger"
)

type cliContext struct {
	sim *bootstrap.Simulator
}

type seedCmd struct{}

func (c *seedCmd) Run(ctx *cliContext) error {
	ctx.sim.Store.ResetDB()
	fmt.Println("seeded default user \"me\"")
	return nil
}

type sendCmd struct {
	To      string `help:"Recipient address" required:""`
	Subject string `help:"Subject line"`
	Body    string `help:"Plain-text body"`
	User    string `help:"Sender user ID or email" default:"me"`
}

func (c *sendCmd) Run(ctx *cliContext) error {
	msg, err := ctx.sim.Mailbox.Send(c.User, mailbox.SendRequest{
		Recipient: c.To,
		Subject:   c.Subject,
		Body:      c.Body,
	})
	if err != nil {
		return err
	}
	fmt.Printf("sent message %s (thread %s)\n", msg.ID, msg.ThreadID)
	return nil
}

type searchCmd struct {
	User  string `arg:"" help:"User ID or email"`
	Query string `arg:"" help:"Gmail-style search query" default:""`
}

func (c *searchCmd) Run(ctx *cliContext) error {
	result, err := ctx.sim.Mailbox.List(c.User, c.Query, nil, false, 50, "", ctx.sim.Config.SearchTokenBudget)
	if err != nil {
		return err
	}
	for _, id := range result.IDs {
		msg, err := ctx.sim.Mailbox.Get(c.User, id)
		if err != nil {
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", msg.ID, msg.Sender, msg.Subject)
	}
	fmt.Printf("%d message(s)\n", len(result.IDs))
	return nil
}

type verifyCmd struct {
	Fix bool `help:"Repair any differences found, rather than only reporting them"`
}

func (c *verifyCmd) Run(ctx *cliContext) error {
	report := ctx.sim.Mailbox.Verify(c.Fix)
	if !report.HasDifferences {
		fmt.Println("no differences found")
		return nil
	}
	for userID, ur := range report.Users {
		for labelID, diffs := range ur.Labels {
			for field, d := range diffs {
				fmt.Printf("%s: label %s %s expected=%d actual=%d\n", userID, labelID, field, d.Expected, d.Actual)
			}
		}
		for field, d := range ur.Profile {
			fmt.Printf("%s: profile %s expected=%d actual=%d\n", userID, field, d.Expected, d.Actual)
		}
	}
	if c.Fix {
		fmt.Println("differences repaired")
	}
	return nil
}

type cli struct {
	Seed   seedCmd   `cmd:"" help:"Reset the store to a single default user"`
	Send   sendCmd   `cmd:"" help:"Send a message"`
	Search searchCmd `cmd:"" help:"Search a user's mailbox"`
	Verify verifyCmd `cmd:"" help:"Run the label/count verifier"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	sim, cleanup, err := bootstrap.New(cfg)
	if err != nil {
		logger.Fatal("failed to initialize simulator: %v", err)
	}
	defer cleanup()
	sim.Start()

	var c cli
	parser := kong.Must(&c, kong.Name("mailsim"), kong.Description("Gmail-like mailbox simulator"))
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := kctx.Run(&cliContext{sim: sim}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
