package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/MaxCernyAlbert/supdopece-cz/internal/schedule"
)

// DefaultWeekHours is the shop's weekly schedule: open Friday
// through Sunday, 08:30-12:00. Index is time.Weekday (0 = Sunday).
var DefaultWeekHours = schedule.WeekHours{
	{Open: "08:30", Close: "12:00"},               // Sunday
	{Open: "09:00", Close: "17:00", Closed: true}, // Monday
	{Open: "09:00", Close: "17:00", Closed: true}, // Tuesday
	{Open: "09:00", Close: "17:00", Closed: true}, // Wednesday
	{Open: "09:00", Close: "17:00", Closed: true}, // Thursday
	{Open: "08:30", Close: "12:00"},               // Friday
	{Open: "08:30", Close: "12:00"},               // Saturday
}

type Payment struct {
	AccountNumber string `json:"account_number"`
	IBAN          string `json:"iban"`
	Message       string `json:"message"`
}

type Config struct {
	ShopName      string
	BaseURL       string
	HTTPPort      string
	DataDir       string
	ProductsFile  string
	MinOrderValue int

	StorageBackend string // "file" or "postgres"

	AdminUser         string
	AdminPasswordHash string // bcrypt

	KafkaBrokers []string
	KafkaTopic   string

	SMSWebhookURL   string
	SMSWebhookToken string
	SMTPHost        string
	SMTPPort        string
	EmailFrom       string

	Hours    schedule.WeekHours
	Ordering schedule.Config
	Payment  Payment
}

// Load reads configuration from the environment, with an optional
// .env file discovered next to the working directory or up to two
// levels above it.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		ShopName:       getenv("SHOP_NAME", "Šup do pece"),
		BaseURL:        getenv("BASE_URL", "http://localhost:9000"),
		HTTPPort:       getenv("HTTP_PORT", "9000"),
		DataDir:        getenv("DATA_DIR", "data"),
		ProductsFile:   getenv("PRODUCTS_FILE", filepath.Join("data", "products.json")),
		StorageBackend: getenv("STORAGE_BACKEND", "file"),

		AdminUser:         getenv("ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		KafkaTopic: getenv("KAFKA_TOPIC", "order_audit"),

		SMSWebhookURL:   os.Getenv("SMS_WEBHOOK_URL"),
		SMSWebhookToken: os.Getenv("SMS_WEBHOOK_TOKEN"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        getenv("SMTP_PORT", "1025"),
		EmailFrom:       getenv("EMAIL_FROM", "info@supdopece.cz"),

		Hours: DefaultWeekHours,
		Payment: Payment{
			AccountNumber: getenv("PAYMENT_ACCOUNT", "123456789/0800"),
			IBAN:          getenv("PAYMENT_IBAN", "CZ6508000000123456789012"),
			Message:       getenv("PAYMENT_MESSAGE", "Sup do pece - objednavka"),
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	var err error
	if cfg.MinOrderValue, err = getenvInt("MIN_ORDER_VALUE", 0); err != nil {
		return nil, err
	}
	if cfg.Ordering.MaxDaysAhead, err = getenvInt("MAX_DAYS_AHEAD", 14); err != nil {
		return nil, err
	}
	if cfg.Ordering.SlotIntervalMinutes, err = getenvInt("SLOT_INTERVAL_MINUTES", 60); err != nil {
		return nil, err
	}
	if cfg.Ordering.DeadlineHour, err = getenvInt("ORDER_DEADLINE_HOUR", 12); err != nil {
		return nil, err
	}
	if cfg.Ordering.DeadlineMinute, err = getenvInt("ORDER_DEADLINE_MINUTE", 0); err != nil {
		return nil, err
	}

	if path := os.Getenv("OPENING_HOURS_FILE"); path != "" {
		if err := loadHoursFile(path, &cfg.Hours); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on configuration a running shop cannot serve
// with. Schedule-level validation (hours table, slot interval,
// deadline) happens again in schedule.New; doing it here keeps the
// failure at startup with a config-shaped error.
func (c *Config) Validate() error {
	if err := c.Hours.Validate(); err != nil {
		return fmt.Errorf("opening hours: %w", err)
	}
	if err := c.Ordering.Validate(); err != nil {
		return fmt.Errorf("ordering config: %w", err)
	}
	if c.MinOrderValue < 0 {
		return fmt.Errorf("MIN_ORDER_VALUE must not be negative, got %d", c.MinOrderValue)
	}
	if c.StorageBackend != "file" && c.StorageBackend != "postgres" {
		return fmt.Errorf("STORAGE_BACKEND must be \"file\" or \"postgres\", got %q", c.StorageBackend)
	}
	return nil
}

func loadEnvFile() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	for _, path := range []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	} {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

func loadHoursFile(path string, hours *schedule.WeekHours) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("opening hours file: %w", err)
	}
	if err := json.Unmarshal(raw, hours); err != nil {
		return fmt.Errorf("opening hours file %s: %w", path, err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
