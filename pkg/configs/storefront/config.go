package storefront

import (
	"net/url"
	"time"

	"github.com/sareeloom/storefront/pkg/domain/pricing"
)

type StorefrontConfig struct {
	server       *ServerConfig
	database     *DatabaseConfig
	auth         *AuthConfig
	storage      *StorageConfig
	payment      *PaymentConfig
	pricing      pricing.Rules
	notification *NotificationConfig
	housekeeping *HousekeepingConfig
}

func (c *StorefrontConfig) Server() *ServerConfig {
	return c.server
}

func (c *StorefrontConfig) Database() *DatabaseConfig {
	return c.database
}

func (c *StorefrontConfig) Auth() *AuthConfig {
	return c.auth
}

func (c *StorefrontConfig) Storage() *StorageConfig {
	return c.storage
}

func (c *StorefrontConfig) Payment() *PaymentConfig {
	return c.payment
}

// Pricing rules. Amounts are in paise.
func (c *StorefrontConfig) Pricing() pricing.Rules {
	return c.pricing
}

func (c *StorefrontConfig) Notification() *NotificationConfig {
	return c.notification
}

func (c *StorefrontConfig) Housekeeping() *HousekeepingConfig {
	return c.housekeeping
}

type ServerConfig struct {
	port     int32
	logLevel string
}

// port to listen. default = 8080
func (s *ServerConfig) Port() int32 {
	return s.port
}

// one of debug, info, warn, error or off. default = "info"
func (s *ServerConfig) LogLevel() string {
	return s.logLevel
}

type DatabaseConfig struct {
	uri string
}

// Connection string for database.
func (d *DatabaseConfig) URI() string {
	return d.uri
}

// Configuration to verify JWTs issued by the auth service.
type AuthConfig struct {
	jwtSecret string
	issuer    string
	audience  string
}

func (a *AuthConfig) JWTSecret() []byte {
	return []byte(a.jwtSecret)
}

// Expected "iss" claim. Empty means not checked.
func (a *AuthConfig) Issuer() string {
	return a.issuer
}

// Expected "aud" claim. default = "authenticated"
func (a *AuthConfig) Audience() string {
	return a.audience
}

type StorageConfig struct {
	supabaseUrl string
	serviceKey  string
	bucket      string
}

func (s *StorageConfig) SupabaseURL() string {
	return s.supabaseUrl
}

func (s *StorageConfig) ServiceKey() string {
	return s.serviceKey
}

// bucket for product images. default = "product-images"
func (s *StorageConfig) Bucket() string {
	return s.bucket
}

type PaymentConfig struct {
	keyId         string
	keySecret     string
	webhookSecret string
	currency      string
}

func (p *PaymentConfig) KeyId() string {
	return p.keyId
}

func (p *PaymentConfig) KeySecret() string {
	return p.keySecret
}

func (p *PaymentConfig) WebhookSecret() string {
	return p.webhookSecret
}

// default = "INR"
func (p *PaymentConfig) Currency() string {
	return p.currency
}

type NotificationConfig struct {
	hooks       []*url.URL
	adminEmail  string
	maxAttempts int
}

// URLs where notifications are posted.
func (n *NotificationConfig) Hooks() []*url.URL {
	return n.hooks
}

// Recipient of new order alerts. Empty means no alerts.
func (n *NotificationConfig) AdminEmail() string {
	return n.adminEmail
}

// default = 5
func (n *NotificationConfig) MaxAttempts() int {
	return n.maxAttempts
}

type HousekeepingConfig struct {
	pendingOrderTTL time.Duration
}

// Orders waiting for payment longer than this are cancelled. default = 30m
func (h *HousekeepingConfig) PendingOrderTTL() time.Duration {
	return h.pendingOrderTTL
}
