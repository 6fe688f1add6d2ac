package smsservices

import (
	"context"
	"errors"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/propvista/backend/config"
)

// SNSClient is a thin wrapper over the SMS provider, used for best-effort
// texts such as site-visit reminders.
type SNSClient struct {
	client   *sns.Client
	senderID string
}

func NewSNSClient(conf *config.Config) *SNSClient {
	if conf.AwsRegion == "" {
		log.Println("aws region not configured, outbound SMS disabled")
		return &SNSClient{}
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.AwsRegion),
	}
	if conf.AwsAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AwsAccessKeyID, conf.AwsSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Printf("unable to load AWS config for SMS: %v", err)
		return &SNSClient{}
	}

	return &SNSClient{
		client:   sns.NewFromConfig(awsCfg),
		senderID: conf.SmsSenderID,
	}
}

// SendSMS publishes one text message to a phone number
func (s *SNSClient) SendSMS(ctx context.Context, phone, message string) error {
	if s.client == nil {
		return errors.New("sms client is not configured")
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	}
	if s.senderID != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(s.senderID),
			},
		}
	}

	_, err := s.client.Publish(ctx, input)
	return err
}
