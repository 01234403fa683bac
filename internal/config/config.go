package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	FrontendURL string `env:"FRONTEND_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	Stripe Stripe `envPrefix:"STRIPE_"`
	SMTP   SMTP   `envPrefix:"SMTP_"`
	Auth   Auth   `envPrefix:"AUTH_"`
	Files  Files  `envPrefix:"FILES_"`

	// BypassPayment completes paid checkouts without calling Stripe.
	// Intended for staging only.
	BypassPayment bool `env:"BYPASS_PAYMENT" envDefault:"false"`
}

type Stripe struct {
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type SMTP struct {
	Host       string `env:"HOST"`
	Port       string `env:"PORT" envDefault:"587"`
	Username   string `env:"USERNAME"`
	Password   string `env:"PASSWORD"`
	From       string `env:"FROM" envDefault:"no-reply@example.com"`
	AdminEmail string `env:"ADMIN_EMAIL"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET,required"`
	TokenTTL  string `env:"TOKEN_TTL" envDefault:"720h"`
}

type Files struct {
	// PrivateDir holds product files; never served statically.
	PrivateDir string `env:"PRIVATE_DIR" envDefault:"./storage/private"`
	PreviewDir string `env:"PREVIEW_DIR" envDefault:"./storage/previews"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
