package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/namsos-athenaeum/athenaeum/config"
	"github.com/namsos-athenaeum/athenaeum/internal/consumer"
	"github.com/namsos-athenaeum/athenaeum/pkg/logger"
	"github.com/namsos-athenaeum/athenaeum/pkg/rabbitmq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var followDurable bool

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Print submission outcomes from the outcome feed",
	Long: `Connect to the RabbitMQ broker at AMQP_URL and print every submission
outcome as it is decided, one line per submission.

By default a temporary queue is used and only new outcomes are shown. With
--durable the shared queue ` + rabbitmq.QueueName + ` is used, so outcomes published
while nobody was following are printed too.`,
	RunE: runFollow,
}

func init() {
	rootCmd.AddCommand(followCmd)

	followCmd.Flags().BoolVar(&followDurable, "durable", false, "consume from the shared durable queue")
}

func runFollow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is not set")
	}

	log, err := logger.New(false, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	queue := ""
	if followDurable {
		queue = rabbitmq.QueueName
	}
	c, err := rabbitmq.NewConsumer(cfg.AMQPURL, queue)
	if err != nil {
		return err
	}
	defer c.Close()

	msgs, err := c.Consume()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("following outcomes", zap.String("queue", c.Queue()))
	done := consumer.NewOutcomeConsumer(cmd.OutOrStdout(), log).Start(msgs)

	select {
	case <-ctx.Done():
		c.Close()
		<-done
	case <-done:
	}
	return nil
}
