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

package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cinecraft/video-director/internal/cloud"
	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/cinecraft/video-director/internal/core/services"
)

// MediaTriggerToGCSObject is the first step of the ingestion chain: it
// parses the raw GCS Pub/Sub notification into a simplified GCSObject
// and rejects objects that are not videos. Non-video drops are a
// configuration mistake on the bucket, not a transient failure, so they
// fail the chain with a validation error; the listener recognizes it as
// terminal and Acks the message instead of letting it redeliver forever.
type MediaTriggerToGCSObject struct {
	cor.BaseCommand
}

// NewMediaTriggerToGCSObject creates the notification parsing step.
func NewMediaTriggerToGCSObject(name string) *MediaTriggerToGCSObject {
	return &MediaTriggerToGCSObject{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute parses the notification and publishes the simplified object.
func (c *MediaTriggerToGCSObject) Execute(context cor.Context) {
	in, ok := context.Get(c.GetInputParam()).(string)
	if !ok {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), cor.ErrMissingInput)
		return
	}

	var out cloud.GCSPubSubNotification
	if err := json.Unmarshal([]byte(in), &out); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to unmarshal GCS notification: %w", err))
		return
	}

	if !strings.HasPrefix(out.ContentType, "video/") {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), &services.ValidationError{Reason: fmt.Sprintf(
			"object %s has content type %q, only video/* is analyzable", out.Name, out.ContentType)})
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	msg := &cloud.GCSObject{Bucket: out.Bucket, Name: out.Name, MIMEType: out.ContentType}
	context.Add(cloud.GetGCSObjectName(), msg)
	context.Add(CtxFileName, out.Name)
	context.Add(c.GetOutputParam(), msg)
}
