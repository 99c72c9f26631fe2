package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	rtcauth "github.com/OpsMx/rtc-auth-client"
	"github.com/OpsMx/rtc-auth-client/internal/config"
	"github.com/OpsMx/rtc-auth-client/internal/credentials"
	"github.com/OpsMx/rtc-auth-client/pkg/jwt"
)

var errTokenInvalid = errors.New("token is invalid")

func newValidateCmd(cfg *config.Config, log func() *zap.Logger) *cobra.Command {
	var (
		token  string
		now    string
		scope  string
		leeway time.Duration
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a token against known application secrets",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseNow(now)
			if err != nil {
				return err
			}

			secrets, err := secretResolver(cfg)
			if err != nil {
				return err
			}

			v := rtcauth.NewValidator(secrets,
				rtcauth.WithScope(scope),
				rtcauth.WithLeeway(leeway),
				rtcauth.WithSecretCacheTTL(cfg.CredentialsCacheTTL),
				rtcauth.WithLogger(log()),
			)
			result := v.Validate(cmd.Context(), token, at)
			fmt.Fprintln(cmd.OutOrStdout(), result)
			if !result.Valid() {
				return errTokenInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "compact JWT to validate")
	cmd.Flags().StringVar(&cfg.CredentialsFile, "credentials", cfg.CredentialsFile, "YAML credentials file (env RTC_CREDENTIALS_FILE)")
	cmd.Flags().StringVar(&cfg.ApplicationKey, "application-key", cfg.ApplicationKey, "application key, used when no credentials file is given (env RTC_APPLICATION_KEY)")
	cmd.Flags().StringVar(&cfg.ApplicationSecret, "application-secret", cfg.ApplicationSecret, "application secret, base64-encoded (env RTC_APPLICATION_SECRET)")
	cmd.Flags().StringVar(&now, "now", "", "validation time in UTC, e.g. 20180102T030405Z")
	cmd.Flags().StringVar(&scope, "scope", "", "required scope claim, e.g. https://push-api.cloud.huawei.com")
	cmd.Flags().DurationVar(&leeway, "leeway", leeway, "allowed clock skew")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

// secretResolver builds the secret lookup from a credentials file or a single configured application
func secretResolver(cfg *config.Config) (jwt.SecretResolver, error) {
	if cfg.CredentialsFile != "" {
		store, err := credentials.LoadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	if cfg.ApplicationKey == "" || cfg.ApplicationSecret == "" {
		return nil, fmt.Errorf("either --credentials or --application-key and --application-secret are required")
	}
	store := credentials.NewStore()
	store.Add(cfg.ApplicationKey, cfg.ApplicationSecret)
	return store, nil
}
