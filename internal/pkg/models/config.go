package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	JWT      JWTConfig
	OTP      OTPConfig
	SMS      SMSConfig
	SMTP     SMTPConfig
	Session  SessionConfig
	NewRelic NewRelicConfig
	Logger   LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver         string
	Host           string
	Port           int
	Username       string
	Password       string
	Database       string
	SSLMode        string
	MaxConns       int
	IdleConns      int
	MigrationsPath string
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret            string
	AccessExpiration  int // in minutes
	RefreshExpiration int // in minutes
	Issuer            string
}

// OTPConfig contains one-time passcode configuration
type OTPConfig struct {
	CodeLength     int // number of digits in a code
	TTL            int // code lifetime in seconds
	MaxAttempts    int // failed verifications before a code is exhausted
	ResendCooldown int // seconds before a new code may be requested
	MaxPerWindow   int // max codes issued per identifier per window
	WindowMinutes  int // issuance window size in minutes
}

// SMSConfig contains Twilio SMS gateway configuration
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// SMTPConfig contains SMTP email gateway configuration
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	MaxConns    int
	SendTimeout int // in seconds
}

// SessionConfig contains admin cookie session configuration
type SessionConfig struct {
	CookieName string
	TTLMinutes int
	Secure     bool
}

// NewRelicConfig contains New Relic observability configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	ForwardLogs bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
