package storefront

import (
	"fmt"
	"net/url"
	"time"

	"github.com/sareeloom/storefront/pkg/domain"
	"github.com/sareeloom/storefront/pkg/domain/pricing"
	"github.com/sareeloom/storefront/pkg/echoutil"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/storefront.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

type StorefrontConfigMarshall struct {
	Server       *ServerConfigMarshall       `yaml:"server"`
	Database     *DatabaseConfigMarshall     `yaml:"database"`
	Auth         *AuthConfigMarshall         `yaml:"auth"`
	Storage      *StorageConfigMarshall      `yaml:"storage"`
	Payment      *PaymentConfigMarshall      `yaml:"payment"`
	Pricing      *PricingConfigMarshall      `yaml:"pricing"`
	Notification *NotificationConfigMarshall `yaml:"notification,omitempty"`
	Housekeeping *HousekeepingConfigMarshall `yaml:"housekeeping,omitempty"`
}

var _ Marshalled[*StorefrontConfig] = &StorefrontConfigMarshall{}

func (s *StorefrontConfigMarshall) trySeal(path string) *StorefrontConfig {
	server := s.Server
	if server == nil {
		server = &ServerConfigMarshall{}
	}
	notification := s.Notification
	if notification == nil {
		notification = &NotificationConfigMarshall{}
	}
	housekeeping := s.Housekeeping
	if housekeeping == nil {
		housekeeping = &HousekeepingConfigMarshall{}
	}
	return &StorefrontConfig{
		server:       server.trySeal(path + ".server"),
		database:     nonnil(s.Database, path+".database").trySeal(path + ".database"),
		auth:         nonnil(s.Auth, path+".auth").trySeal(path + ".auth"),
		storage:      nonnil(s.Storage, path+".storage").trySeal(path + ".storage"),
		payment:      nonnil(s.Payment, path+".payment").trySeal(path + ".payment"),
		pricing:      nonnil(s.Pricing, path+".pricing").trySeal(path + ".pricing"),
		notification: notification.trySeal(path + ".notification"),
		housekeeping: housekeeping.trySeal(path + ".housekeeping"),
	}
}

type ServerConfigMarshall struct {
	Port     int32  `yaml:"port,omitempty"`
	LogLevel string `yaml:"loglevel,omitempty"`
}

func (s *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	port := s.Port
	if port == 0 {
		port = 8080
	}
	if port < 0 || 65535 < port {
		panic(fmt.Sprintf("%s.port should be in 1..65535, but %d", path, port))
	}
	level := s.LogLevel
	if level == "" {
		level = "info"
	}
	if _, ok := echoutil.ParseLevel(level); !ok {
		panic(fmt.Sprintf("%s.loglevel is unknown: %s", path, level))
	}
	return &ServerConfig{port: port, logLevel: level}
}

type DatabaseConfigMarshall struct {
	URI string `yaml:"uri"`
}

func (d *DatabaseConfigMarshall) trySeal(path string) *DatabaseConfig {
	return &DatabaseConfig{uri: required(d.URI, path+".uri")}
}

type AuthConfigMarshall struct {
	JWTSecret string `yaml:"jwtSecret"`
	Issuer    string `yaml:"issuer,omitempty"`
	Audience  string `yaml:"audience,omitempty"`
}

func (a *AuthConfigMarshall) trySeal(path string) *AuthConfig {
	audience := a.Audience
	if audience == "" {
		audience = "authenticated"
	}
	return &AuthConfig{
		jwtSecret: required(a.JWTSecret, path+".jwtSecret"),
		issuer:    a.Issuer,
		audience:  audience,
	}
}

type StorageConfigMarshall struct {
	SupabaseURL string `yaml:"supabaseUrl"`
	ServiceKey  string `yaml:"serviceKey"`
	Bucket      string `yaml:"bucket,omitempty"`
}

func (s *StorageConfigMarshall) trySeal(path string) *StorageConfig {
	bucket := s.Bucket
	if bucket == "" {
		bucket = "product-images"
	}
	u := required(s.SupabaseURL, path+".supabaseUrl")
	if _, err := url.ParseRequestURI(u); err != nil {
		panic(fmt.Errorf("%s.supabaseUrl can not be parsed: %w", path, err))
	}
	return &StorageConfig{
		supabaseUrl: u,
		serviceKey:  required(s.ServiceKey, path+".serviceKey"),
		bucket:      bucket,
	}
}

type PaymentConfigMarshall struct {
	KeyId         string `yaml:"keyId"`
	KeySecret     string `yaml:"keySecret"`
	WebhookSecret string `yaml:"webhookSecret"`
	Currency      string `yaml:"currency,omitempty"`
}

func (p *PaymentConfigMarshall) trySeal(path string) *PaymentConfig {
	currency := p.Currency
	if currency == "" {
		currency = "INR"
	}
	return &PaymentConfig{
		keyId:         required(p.KeyId, path+".keyId"),
		keySecret:     required(p.KeySecret, path+".keySecret"),
		webhookSecret: required(p.WebhookSecret, path+".webhookSecret"),
		currency:      currency,
	}
}

// amounts are in paise.
type PricingConfigMarshall struct {
	DeliveryCharge        int64 `yaml:"deliveryCharge"`
	FreeDeliveryThreshold int64 `yaml:"freeDeliveryThreshold"`
	MaxQuantityPerLine    int   `yaml:"maxQuantityPerLine,omitempty"`
}

func (p *PricingConfigMarshall) trySeal(path string) pricing.Rules {
	if p.DeliveryCharge < 0 {
		panic(path + ".deliveryCharge should not be negative")
	}
	if p.FreeDeliveryThreshold < 0 {
		panic(path + ".freeDeliveryThreshold should not be negative")
	}
	max := p.MaxQuantityPerLine
	if max == 0 {
		max = 10
	}
	if max < 0 {
		panic(path + ".maxQuantityPerLine should be positive")
	}
	return pricing.Rules{
		DeliveryCharge:        domain.Amount(p.DeliveryCharge),
		FreeDeliveryThreshold: domain.Amount(p.FreeDeliveryThreshold),
		MaxQuantityPerLine:    max,
	}
}

type NotificationConfigMarshall struct {
	Hooks       []string `yaml:"hooks,omitempty"`
	AdminEmail  string   `yaml:"adminEmail,omitempty"`
	MaxAttempts int      `yaml:"maxAttempts,omitempty"`
}

func (n *NotificationConfigMarshall) trySeal(path string) *NotificationConfig {
	hooks := make([]*url.URL, 0, len(n.Hooks))
	for i, h := range n.Hooks {
		u, err := url.ParseRequestURI(h)
		if err != nil {
			panic(fmt.Errorf("%s.hooks[%d] can not be parsed: %w", path, i, err))
		}
		hooks = append(hooks, u)
	}
	max := n.MaxAttempts
	if max == 0 {
		max = 5
	}
	if max < 0 {
		panic(path + ".maxAttempts should be positive")
	}
	return &NotificationConfig{hooks: hooks, adminEmail: n.AdminEmail, maxAttempts: max}
}

type HousekeepingConfigMarshall struct {
	PendingOrderTTL string `yaml:"pendingOrderTTL,omitempty"`
}

func (h *HousekeepingConfigMarshall) trySeal(path string) *HousekeepingConfig {
	ttl := 30 * time.Minute
	if h.PendingOrderTTL != "" {
		d, err := time.ParseDuration(h.PendingOrderTTL)
		if err != nil {
			panic(fmt.Errorf("%s.pendingOrderTTL can not be parsed: %w", path, err))
		}
		if d <= 0 {
			panic(path + ".pendingOrderTTL should be positive")
		}
		ttl = d
	}
	return &HousekeepingConfig{pendingOrderTTL: ttl}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}
