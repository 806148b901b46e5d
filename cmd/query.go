package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/meitrex/course-service/client"
	"github.com/meitrex/course-service/remote"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var queryChaptersCmd = &cobra.Command{
	Use:   "query-chapters --course-id [ID] [OPTIONS]",
	Short: "Fetch the chapters of a course from a running course service",
	Args: func(cmd *cobra.Command, args []string) error {
		if _, err := uuid.Parse(viper.GetString("course-id")); err != nil {
			return fmt.Errorf("invalid course id: %s", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID := uuid.MustParse(viper.GetString("course-id"))

		courses := client.NewCourseServiceClient(newRemoteClient(), logger)
		chapters, err := courses.QueryChaptersByCourseID(context.Background(), &courseID)
		if err != nil {
			if remoteErr, ok := remote.AsError(err); ok {
				logger.Error("chapter query failed", "kind", remoteErr.Kind.String(), "error", remoteErr)
			}
			return err
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(chapters)
	},
}

func init() {
	flags := queryChaptersCmd.Flags()
	flags.String("url", "http://localhost:8080"+defaultGraphQLPath, "GraphQL url of the course service")
	flags.String("course-id", "", "id of the course")
	flags.Int("attempts", remote.DefaultMaxAttempts, "attempts per query, only transport or server failures are retried")
	flags.Duration("backoff", 0, "initial wait between attempts, doubled after each failure; 0 retries immediately")
	flags.Duration("attempt-timeout", 0, "deadline of a single attempt; 0 disables it")

	flags.VisitAll(func(flag *pflag.Flag) {
		viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
	})
}

func newRemoteClient() *remote.Client {
	transport := remote.NewHTTPTransport(viper.GetString("url"), &http.Client{})
	cfg := remote.NewClientConfig(transport, logger).
		WithMaxAttempts(viper.GetInt("attempts")).
		WithAttemptTimeout(viper.GetDuration("attempt-timeout"))

	if initial := viper.GetDuration("backoff"); initial > 0 {
		cfg.WithBackOff(func() backoff.BackOff {
			policy := backoff.NewExponentialBackOff()
			policy.InitialInterval = initial
			policy.Multiplier = 2
			policy.MaxElapsedTime = 0
			policy.Reset()
			return policy
		})
	}
	return cfg.NewClient()
}
