// lovespace-init pairs this device with a couple space: it stores the
// shared secret code, which partner this device belongs to, and the display
// names in the local settings database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"lovespace/internal/cli"
	"lovespace/internal/core"
	"lovespace/internal/localstore"
)

func main() {
	var (
		code     = flag.String("code", "", "shared secret code (required unless -clear or -show)")
		identity = flag.String("identity", "", "which partner this device is: boy or girl")
		boyName  = flag.String("boy-name", "", "display name for the boy")
		girlName = flag.String("girl-name", "", "display name for the girl")
		show     = flag.Bool("show", false, "print the current pairing and exit")
		clear    = flag.Bool("clear", false, "unpair this device and exit")
	)
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	settings := cli.InitLocalStore(logger, cfg.SQLiteDBPath)
	defer settings.Close()

	ctx := context.Background()

	switch {
	case *show:
		sess, err := settings.LoadSession(ctx)
		if err != nil {
			logger.Error("Failed to load pairing", "error", err)
			os.Exit(1)
		}
		if sess.SecretCode == "" {
			fmt.Println("not paired")
			return
		}
		fmt.Printf("code: %s\nidentity: %s\nboy: %s\ngirl: %s\n",
			sess.SecretCode, sess.Role, sess.BoyName, sess.GirlName)
		return

	case *clear:
		if err := settings.ClearSession(ctx); err != nil {
			logger.Error("Failed to clear pairing", "error", err)
			os.Exit(1)
		}
		fmt.Println("unpaired")
		return
	}

	if *code == "" {
		fmt.Fprintln(os.Stderr, "usage: lovespace-init -code CODE -identity boy|girl [-boy-name NAME] [-girl-name NAME]")
		os.Exit(2)
	}
	role := core.Role(*identity)
	if *identity != "" && !role.Valid() {
		fmt.Fprintln(os.Stderr, "identity must be \"boy\" or \"girl\"")
		os.Exit(2)
	}

	err := settings.SaveSession(ctx, localstore.Session{
		SecretCode: *code,
		Role:       role,
		BoyName:    *boyName,
		GirlName:   *girlName,
	})
	if err != nil {
		logger.Error("Failed to save pairing", "error", err)
		os.Exit(1)
	}
	fmt.Println("paired")
}
