package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ObjectRef names one raw payload object in the raw bucket.
type ObjectRef struct {
	Bucket string
	Key    string
}

// TriggerMessage is an unprocessed trigger envelope from the trigger topic.
// Commit acknowledges the envelope after its batch has been fully processed;
// leaving it uncommitted makes the transport redeliver.
type TriggerMessage struct {
	Key       []byte
	Value     []byte
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// triggerEnvelope mirrors the object-created notification shape published by
// the raw bucket's event integration.
type triggerEnvelope struct {
	Records []struct {
		S3 struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// ParseTriggerEvent extracts the object references from a trigger envelope,
// preserving delivery order.
func ParseTriggerEvent(value []byte) ([]ObjectRef, error) {
	var env triggerEnvelope
	if err := json.Unmarshal(value, &env); err != nil {
		return nil, fmt.Errorf("parse trigger event: %w", err)
	}

	refs := make([]ObjectRef, 0, len(env.Records))
	for i, rec := range env.Records {
		if rec.S3.Bucket.Name == "" || rec.S3.Object.Key == "" {
			return nil, fmt.Errorf("parse trigger event: record %d missing bucket or object key", i)
		}
		refs = append(refs, ObjectRef{Bucket: rec.S3.Bucket.Name, Key: rec.S3.Object.Key})
	}
	return refs, nil
}

// FailureContext carries whatever payload identity was known before a
// processing failure, for inclusion in the failure notification. Both fields
// may be empty when the failure happened before the payload was parsed.
type FailureContext struct {
	Location string
	Date     string
}
