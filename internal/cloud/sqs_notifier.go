package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"

	"github.com/soaringjerry/QuickScan/internal/services"
)

const eventScanSaved = "quick_scan.saved"

// SQSNotifier publishes saved-scan events for the mailer that sends admin copies.
type SQSNotifier struct {
	client   sqsiface.SQSAPI
	queueURL string
}

func NewSQSNotifier(sess *session.Session, queueURL string) (*SQSNotifier, error) {
	return newSQSNotifier(sqs.New(sess), queueURL)
}

func newSQSNotifier(c sqsiface.SQSAPI, queueURL string) (*SQSNotifier, error) {
	if queueURL == "" {
		return nil, errors.New("sqs queue url required")
	}
	return &SQSNotifier{client: c, queueURL: queueURL}, nil
}

func (n *SQSNotifier) NotifyScanSaved(ctx context.Context, ev services.ScanSavedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = n.client.SendMessageWithContext(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(n.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]*sqs.MessageAttributeValue{
			"event": {DataType: aws.String("String"), StringValue: aws.String(eventScanSaved)},
		},
	})
	if err != nil {
		return fmt.Errorf("send %s: %w", eventScanSaved, err)
	}
	return nil
}
