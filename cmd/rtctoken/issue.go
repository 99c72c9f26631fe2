package main

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	rtcauth "github.com/OpsMx/rtc-auth-client"
	"github.com/OpsMx/rtc-auth-client/internal/config"
	"github.com/OpsMx/rtc-auth-client/pkg/jwt"
)

func newIssueCmd(cfg *config.Config) *cobra.Command {
	var (
		userID string
		nonce  string
		now    string
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Construct and sign a User registration token",
		RunE: func(cmd *cobra.Command, args []string) error {
			issuedAt, err := parseNow(now)
			if err != nil {
				return err
			}
			if nonce == "" {
				nonce = uuid.NewString()
			}

			var opts []rtcauth.RegistrationOption
			if cfg.InstanceTTL > 0 {
				opts = append(opts, rtcauth.WithInstanceExpiresAt(issuedAt.Add(cfg.InstanceTTL)))
			}

			token, err := rtcauth.NewUserRegistrationToken(cfg.ApplicationKey, cfg.ApplicationSecret, userID, nonce, issuedAt, issuedAt.Add(cfg.TokenTTL), opts...)
			if err != nil {
				return err
			}
			s, err := token.JWT()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}

	addIssuerFlags(cmd, cfg)
	cmd.Flags().StringVar(&userID, "user-id", "", "User ID, e.g. 'foo'")
	cmd.Flags().StringVar(&nonce, "nonce", "", "cryptographic nonce (default: random UUID)")
	cmd.Flags().StringVar(&now, "now", "", "simulate current time in UTC, e.g. 20180102T030405Z; used as iat")
	cmd.Flags().DurationVar(&cfg.InstanceTTL, "instance-ttl", cfg.InstanceTTL, "registration lifetime, 0 for none (env RTC_INSTANCE_TTL)")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newAssertCmd(cfg *config.Config) *cobra.Command {
	var (
		hmsAppID string
		audience string
		nonce    string
		now      string
	)

	cmd := &cobra.Command{
		Use:   "assert",
		Short: "Construct and sign an HMS OAuth client assertion",
		RunE: func(cmd *cobra.Command, args []string) error {
			issuedAt, err := parseNow(now)
			if err != nil {
				return err
			}
			if nonce == "" {
				nonce = uuid.NewString()
			}

			assertion, err := rtcauth.NewClientAssertion(cfg.ApplicationKey, cfg.ApplicationSecret, hmsAppID, audience, nonce, issuedAt, issuedAt.Add(cfg.TokenTTL))
			if err != nil {
				return err
			}
			s, err := assertion.JWT()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}

	addIssuerFlags(cmd, cfg)
	cmd.Flags().StringVar(&hmsAppID, "hms-app-id", "", "HMS application id, used as sub")
	cmd.Flags().StringVar(&audience, "audience", "", "token endpoint URL, used as aud")
	cmd.Flags().StringVar(&nonce, "nonce", "", "cryptographic nonce (default: random UUID)")
	cmd.Flags().StringVar(&now, "now", "", "simulate current time in UTC, e.g. 20180102T030405Z; used as iat")
	_ = cmd.MarkFlagRequired("hms-app-id")
	_ = cmd.MarkFlagRequired("audience")
	return cmd
}

func newDeriveKeyCmd(cfg *config.Config) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "derive-key",
		Short: "Print the key id and base64 signing key derived for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := time.Now().UTC()
			if date != "" {
				var err error
				if t, err = jwt.ParseKeyID(jwt.KeyIDPrefix + date); err != nil {
					return err
				}
			}

			key, err := jwt.DeriveSigningKeyBase64(cfg.ApplicationSecret, t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", jwt.KeyID(t), base64.StdEncoding.EncodeToString(key))
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.ApplicationSecret, "application-secret", cfg.ApplicationSecret, "application secret, base64-encoded (env RTC_APPLICATION_SECRET)")
	cmd.Flags().StringVar(&date, "date", "", "derivation date as YYYYMMDD (default: today, UTC)")
	return cmd
}

func addIssuerFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.ApplicationKey, "application-key", cfg.ApplicationKey, "application key (env RTC_APPLICATION_KEY)")
	cmd.Flags().StringVar(&cfg.ApplicationSecret, "application-secret", cfg.ApplicationSecret, "application secret, base64-encoded (env RTC_APPLICATION_SECRET)")
	cmd.Flags().DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "token lifetime, exp = iat + TTL (env RTC_TOKEN_TTL)")
}
