package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type syncCmd struct {
	deps  *Dependencies
	token string
	out   bool
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "sign in to cloud sync, or sign out of it" }
func (*syncCmd) Usage() string {
	return `libreta sync -token <firebase-id-token>
libreta sync -out

  With -token, verifies the identity and switches to cloud persistence;
  the first sign-in of a fresh account migrates the local data to the
  user's cloud document. With -out, reverts to local persistence.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.token, "token", "", "Firebase ID token obtained from the sign-in flow")
	f.BoolVar(&c.out, "out", false, "sign out and return to local persistence")
}

func (c *syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.out {
		if err := c.deps.Store.OnIdentityChanged(ctx, ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Signed out. Data is now kept locally.")
		return subcommands.ExitSuccess
	}

	if c.token == "" {
		fmt.Fprintln(os.Stderr, "Error: either -token or -out is required")
		return subcommands.ExitUsageError
	}
	if c.deps.Identity == nil {
		fmt.Fprintln(os.Stderr, "Error: cloud sync is not configured (set FIREBASE_PROJECT_ID)")
		return subcommands.ExitFailure
	}

	uid, err := c.deps.Identity.VerifyToken(ctx, c.token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := c.deps.Store.OnIdentityChanged(ctx, uid); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Signed in. %d clients, %d products in the cloud document.\n",
		len(c.deps.Store.Clients()), len(c.deps.Store.Products()))
	return subcommands.ExitSuccess
}
