// Command tokengen mints a signed identity token with the configured
// secret, standing in for the account service during development and
// manual testing.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/fenggwsx/ChatRelay/internal/auth"
	"github.com/fenggwsx/ChatRelay/internal/config"
)

func main() {
	cmd := &cli.Command{
		Name:  "tokengen",
		Usage: "mint a signed identity token for a user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Usage:    "username embedded in the identity claim",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "user-id",
				Usage: "user id embedded in the identity claim (random when omitted)",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "token lifetime (overrides CHATRELAY_JWT_EXPIRATION)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.LoadJWTConfig()
			if ttl := cmd.Duration("ttl"); ttl > 0 {
				cfg.Expiration = ttl
			}

			userID := cmd.String("user-id")
			if userID == "" {
				userID = uuid.NewString()
			}

			token, err := auth.NewToken(cfg, userID, cmd.String("username"))
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			fmt.Println(token)
			fmt.Fprintf(os.Stderr, "user=%s id=%s expires=%s\n",
				cmd.String("username"), userID, time.Now().Add(cfg.Expiration).Format(time.RFC3339))
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
