package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// FrontendBaseURL is the public origin of the web frontend, used to
	// construct password reset links.
	FrontendBaseURL string `mapstructure:"frontend_base_url" validate:"required,url"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the lifetime of issued session tokens.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// ResetTokenLifetimeMinutes is how long a password reset token stays
	// redeemable after issuance.
	ResetTokenLifetimeMinutes int `mapstructure:"reset_token_lifetime_minutes" validate:"required,gt=0"`

	// BcryptCost is the adaptive hashing cost factor for stored passwords.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=10,lte=16"`
}
