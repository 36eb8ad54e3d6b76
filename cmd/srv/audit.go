package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/questx-lab/dashboard/internal/model"
	"github.com/questx-lab/dashboard/pkg/kafka"
	"github.com/questx-lab/dashboard/pkg/pubsub"

	"github.com/urfave/cli/v2"
)

const auditGroupID = "dashboard_audit_logger"

func (s *srv) startAuditSubscriber(ct *cli.Context) error {
	server.loadConfig(ct)
	server.loadLogger()

	if !s.configs.Kafka.Enabled {
		return errors.New("kafka is not enabled")
	}

	subscriber, err := kafka.NewSubscriber(
		auditGroupID,
		s.configs.Kafka.Addrs,
		[]string{s.configs.Kafka.Topic},
		s.handleAuditEvent,
		s.logger,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Infof("Subscribing audit events of topic %s", s.configs.Kafka.Topic)
	go subscriber.Subscribe(ctx)

	<-ctx.Done()
	return subscriber.Stop(context.Background())
}

func (s *srv) handleAuditEvent(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event model.AuditEvent
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		s.logger.Warnf("Cannot decode audit event of key %s: %v", string(pack.Key), err)
		return
	}

	s.logger.Infof("Audit %s: guild=%s user=%s payload=%v at %s",
		event.Type, event.GuildID, event.UserID, event.Payload, t.Format(time.RFC3339))
}
