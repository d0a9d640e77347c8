package ses

// Config holds AWS SES provider configuration. Static credentials are
// optional; when empty the default AWS credential chain is used.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}
