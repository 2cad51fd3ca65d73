// Package cloud connects Quick Scan to AWS: CSV exports are archived to S3 and
// admin copies of submissions are queued on SQS.
package cloud

import (
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
)

// NewSession builds an AWS session for region using the default credential chain.
func NewSession(region string) (*session.Session, error) {
	if region == "" {
		return nil, errors.New("aws region required")
	}
	return session.NewSession(&aws.Config{Region: aws.String(region)})
}
