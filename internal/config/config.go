package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	Database Database `envPrefix:"DB_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Esewa    Esewa    `envPrefix:"ESEWA_"`
	Checkout Checkout `envPrefix:"CHECKOUT_"`
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

// Database selects the gorm dialector at startup. Driver is mysql in
// production and sqlite for local development.
type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"dairymart.db"`
}

type Redis struct {
	Addr         string `env:"ADDR" envDefault:"localhost:6379"`
	DB           int    `env:"DB" envDefault:"0"`
	CartTTLHours int    `env:"CART_TTL_HOURS" envDefault:"72"`
}

type JWT struct {
	Secret      string `env:"SECRET,required"`
	ExpiryHours int    `env:"EXPIRY_HOURS" envDefault:"72"`
}

type Esewa struct {
	BaseURL      string `env:"BASE_URL" envDefault:"https://rc-epay.esewa.com.np"`
	MerchantCode string `env:"MERCHANT_CODE" envDefault:"EPAYTEST"`
	SecretKey    string `env:"SECRET_KEY"`
	// TimeoutSec bounds calls to the gateway, the only outbound network
	// dependency.
	TimeoutSec int `env:"TIMEOUT_SEC" envDefault:"15"`
}

type Checkout struct {
	ShippingCost  string `env:"SHIPPING_COST" envDefault:"100"`
	RateLimit     int    `env:"RATE_LIMIT" envDefault:"10"`
	RateWindowSec int    `env:"RATE_WINDOW_SEC" envDefault:"60"`
}
