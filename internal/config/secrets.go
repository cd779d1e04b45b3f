package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// ParameterGetter is the SSM call used to read secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type secret struct {
	paramEnv     string
	defaultParam string
	required     bool
	target       *string
}

func newSSMClient(ctx context.Context) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// loadSecrets overwrites credentials with values from Parameter Store.
// Missing optional parameters are left empty.
func (c *Config) loadSecrets(ctx context.Context, client ParameterGetter) error {
	secrets := []secret{
		{"GOOGLE_CREDENTIALS_PARAM", "/calendar-dashboard/google-credentials", c.CalendarSource == SourceGoogle, &c.GoogleCredentials},
		{"MAPBOX_TOKEN_PARAM", "/calendar-dashboard/mapbox-token", false, &c.MapboxToken},
		{"GOOGLE_GEOCODING_API_KEY_PARAM", "/calendar-dashboard/google-geocoding-api-key", false, &c.GoogleGeocodingAPIKey},
	}

	for _, s := range secrets {
		name := sharedcfg.EnvOrDefault(s.paramEnv, s.defaultParam)
		value, err := getParameter(ctx, client, name)
		var notFound *types.ParameterNotFound
		switch {
		case err == nil:
			*s.target = value
		case errors.As(err, &notFound) && !s.required:
			continue
		default:
			return err
		}
	}
	return nil
}

func getParameter(ctx context.Context, client ParameterGetter, name string) (string, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s is empty", name)
	}
	return *out.Parameter.Value, nil
}
