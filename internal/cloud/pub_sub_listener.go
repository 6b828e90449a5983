// Copyright 2025 CineCraft, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cloud provides components for interacting with Google Cloud
// services. This file defines a generic, reusable Pub/Sub message
// listener. Receiving messages from a subscription is abstracted away and
// the actual processing is delegated to a Command, keeping the listener
// free of ingestion-specific logic.
//
// Logic Flow:
//  1. A PubSubListener is created with a client and a subscription ID.
//  2. A Command (the ingestion chain) is attached to the listener.
//  3. Listen starts a background goroutine that waits for messages.
//  4. Each message is handed to the Command inside a fresh chain context.
//  5. A clean run Acks the message. A failed run Acks when the failure is
//     a permanent rejection of the message itself (a 4xx status, e.g. a
//     non-video upload) and Nacks for redelivery otherwise. The chain
//     context is always closed, so temp artifacts from a failed run are
//     still removed.
//
// Structs:
//   - PubSubListener: Binds a subscription to its processing command.
//
// Functions:
//   - NewPubSubListener: Constructor for a listener.
//   - SetCommand: Attaches a processing command to the listener.
//   - Listen: Starts the background receive loop.
package cloud

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/pubsub"
	"github.com/cinecraft/video-director/internal/core/cor"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// terminalChainFailure reports whether any recorded chain error is a
// permanent rejection of the input, recognized by a 4xx status code on
// the error. Provider and infrastructure failures carry 5xx codes or
// none at all, and stay retryable.
func terminalChainFailure(errs map[string]error) bool {
	for _, err := range errs {
		var coded interface{ StatusCode() int }
		if errors.As(err, &coded) && coded.StatusCode() >= 400 && coded.StatusCode() < 500 {
			return true
		}
	}
	return false
}

// PubSubListener encapsulates the components needed to listen to a
// Google Cloud Pub/Sub subscription and process each message with a
// command chain. Listeners have a life-cycle independent of individual
// API requests, so they live in the cloud package.
type PubSubListener struct {
	client       *pubsub.Client       // The client for interacting with the Pub/Sub service.
	subscription *pubsub.Subscription // The subscription this listener pulls messages from.
	command      cor.Command          // The command executed for each received message.
}

// NewPubSubListener creates a listener for the given subscription ID. The
// command may be nil at construction time and attached later with
// SetCommand once the workflow chains exist.
func NewPubSubListener(
	pubsubClient *pubsub.Client,
	subscriptionID string,
	command cor.Command,
) (*PubSubListener, error) {
	return &PubSubListener{
		client:       pubsubClient,
		subscription: pubsubClient.Subscription(subscriptionID),
		command:      command,
	}, nil
}

// SetCommand attaches a command to the listener. The first attached
// command wins; later calls are ignored so the initial wiring is not
// accidentally overwritten.
func (m *PubSubListener) SetCommand(command cor.Command) {
	if m.command == nil {
		m.command = command
	}
}

// Listen starts the asynchronous receive loop in its own goroutine.
// Cancelling ctx (e.g. during graceful shutdown) stops the loop.
func (m *PubSubListener) Listen(ctx context.Context) {
	slog.Info("starting subscription listener", "subscription", m.subscription.String())

	go func() {
		tracer := otel.Tracer("ingest-listener")

		err := m.subscription.Receive(ctx, func(_ context.Context, msg *pubsub.Message) {
			spanCtx, span := tracer.Start(ctx, "receive-message")
			span.SetAttributes(attribute.String("msg", string(msg.Data)))
			defer span.End()

			chainCtx := cor.NewBaseContext()
			chainCtx.SetContext(spanCtx)
			chainCtx.Add(cor.CtxIn, string(msg.Data))
			// Remove every temp artifact this message produced, even when
			// the chain failed part-way through.
			defer chainCtx.Close()

			m.command.Execute(chainCtx)

			if !chainCtx.HasErrors() {
				span.SetStatus(codes.Ok, "success")
				msg.Ack()
				return
			}
			span.SetStatus(codes.Error, "failed")
			for _, e := range chainCtx.GetErrors() {
				slog.Error("ingestion chain failed", "subscription", m.subscription.String(), "error", e)
			}
			// A message rejected on its own merits (a non-video upload, a
			// malformed notification) will fail the same way on every
			// redelivery, so it is Ack'd and dropped. Transient failures
			// Nack for prompt redelivery per the subscription's retry
			// policy.
			if terminalChainFailure(chainCtx.GetErrors()) {
				slog.Warn("dropping permanently rejected message", "subscription", m.subscription.String())
				msg.Ack()
				return
			}
			msg.Nack()
		})
		if err != nil {
			slog.Error("subscription receive terminated", "subscription", m.subscription.String(), "error", err)
		}
	}()
}
