package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterLister is the subset of the SSM client used to read parameters.
type ParameterLister interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// LoadSSM overlays config with the parameters stored under SSM_PARAMETER_PATH,
// keyed by the last path segment (/studio/prod/SESSION_SECRET -> SESSION_SECRET).
// It is a no-op when SSM_PARAMETER_PATH is unset.
func LoadSSM(ctx context.Context, config map[string]string) error {
	parameterPath := GetString(config, "SSM_PARAMETER_PATH", "")
	if parameterPath == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(GetString(config, "AWS_REGION", "us-east-1")))
	if err != nil {
		return fmt.Errorf("failed to load AWS config for SSM: %w", err)
	}

	overrides, err := FetchParameters(ctx, ssm.NewFromConfig(awsCfg), parameterPath)
	if err != nil {
		return err
	}

	Merge(config, overrides)
	log.Info().Str("path", parameterPath).Int("count", len(overrides)).Msg("Loaded configuration from SSM")
	return nil
}

// FetchParameters pages through every decrypted parameter under parameterPath.
func FetchParameters(ctx context.Context, client ParameterLister, parameterPath string) (map[string]string, error) {
	values := make(map[string]string)

	var nextToken *string
	for {
		out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           aws.String(parameterPath),
			Recursive:      aws.Bool(true),
			WithDecryption: aws.Bool(true),
			NextToken:      nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read SSM parameters under %s: %w", parameterPath, err)
		}

		for _, parameter := range out.Parameters {
			name := aws.ToString(parameter.Name)
			if name == "" {
				continue
			}
			values[path.Base(name)] = aws.ToString(parameter.Value)
		}

		if out.NextToken == nil || aws.ToString(out.NextToken) == "" {
			break
		}
		nextToken = out.NextToken
	}

	return values, nil
}
