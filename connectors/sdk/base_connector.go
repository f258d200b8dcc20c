// Copyright 2025 AxonFlow
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sdk

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"docbridge/connectors/base"
)

const defaultTimeout = 30 * time.Second

// BaseConnector provides the state and helpers shared by every connector.
// Embed it and layer the backend client on top.
type BaseConnector struct {
	name         string
	connType     string
	config       *base.ConnectorConfig
	connected    bool
	logger       *log.Logger
	authProvider AuthProvider
	rateLimiter  *RateLimiter
	metrics      *ConnectorMetrics
	mu           sync.RWMutex
}

// NewBaseConnector creates a new base connector with the given type
func NewBaseConnector(connType string) *BaseConnector {
	return &BaseConnector{
		connType: connType,
		logger:   log.New(os.Stderr, fmt.Sprintf("[DOCBRIDGE_%s] ", strings.ToUpper(connType)), log.LstdFlags),
		metrics:  NewConnectorMetrics(connType),
	}
}

// Connect stores the configuration. Connectors call it before building their client.
func (c *BaseConnector) Connect(ctx context.Context, config *base.ConnectorConfig) error {
	if config == nil {
		return base.NewConnectorError(c.connType, "Connect", "configuration is required", nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.config = config
	c.name = config.Name
	if c.config.Timeout == 0 {
		c.config.Timeout = defaultTimeout
	}
	return nil
}

// MarkConnected flags the connector as connected once its client is ready
func (c *BaseConnector) MarkConnected() {
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	c.metrics.RecordConnect()
}

// Disconnect clears the connected state
func (c *BaseConnector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false
	c.metrics.RecordDisconnect()
	c.logger.Printf("Disconnected: %s", c.nameUnlocked())
	return nil
}

// HealthCheck reports the connection state. Connectors extend it with a backend probe.
func (c *BaseConnector) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &base.HealthStatus{
		Healthy:   c.connected,
		Timestamp: time.Now(),
		Details:   map[string]string{"connector_type": c.connType},
	}
	if !c.connected {
		status.Error = "not connected"
	}
	return status, nil
}

// RequireCredentials returns an error naming every key missing from the credentials
func (c *BaseConnector) RequireCredentials(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if c.GetCredential(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return base.NewConnectorError(c.Name(), "Connect", "missing credentials: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

// RequireOptions returns an error naming every string option that is missing or empty
func (c *BaseConnector) RequireOptions(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if c.GetStringOption(k, "") == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return base.NewConnectorError(c.Name(), "Connect", "missing options: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

// Name returns the connector instance name
func (c *BaseConnector) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nameUnlocked()
}

func (c *BaseConnector) nameUnlocked() string {
	if c.name != "" {
		return c.name
	}
	return c.connType
}

// Type returns the connector type
func (c *BaseConnector) Type() string {
	return c.connType
}

// SetLogger sets a custom logger
func (c *BaseConnector) SetLogger(logger *log.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
}

// GetLogger returns the logger
func (c *BaseConnector) GetLogger() *log.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// SetAuthProvider sets the authentication provider
func (c *BaseConnector) SetAuthProvider(auth AuthProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authProvider = auth
}

// GetAuthProvider returns the authentication provider
func (c *BaseConnector) GetAuthProvider() AuthProvider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authProvider
}

// SetRateLimiter sets the rate limiter
func (c *BaseConnector) SetRateLimiter(limiter *RateLimiter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rateLimiter = limiter
}

// Throttle waits on the rate limiter if one is configured
func (c *BaseConnector) Throttle(ctx context.Context) error {
	c.mu.RLock()
	limiter := c.rateLimiter
	c.mu.RUnlock()

	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// GetMetrics returns the connector metrics
func (c *BaseConnector) GetMetrics() *ConnectorMetrics {
	return c.metrics
}

// IsConnected returns the connection status
func (c *BaseConnector) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// GetConfig returns the connector configuration
func (c *BaseConnector) GetConfig() *base.ConnectorConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// Log writes a log message with the connector prefix
func (c *BaseConnector) Log(format string, args ...interface{}) {
	c.GetLogger().Printf(format, args...)
}

// GetTimeout returns the configured timeout or default
func (c *BaseConnector) GetTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.config != nil && c.config.Timeout > 0 {
		return c.config.Timeout
	}
	return defaultTimeout
}

// GetOption retrieves an option value from config
func (c *BaseConnector) GetOption(key string, defaultValue interface{}) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.config == nil || c.config.Options == nil {
		return defaultValue
	}
	if val, ok := c.config.Options[key]; ok {
		return val
	}
	return defaultValue
}

// GetStringOption retrieves a string option
func (c *BaseConnector) GetStringOption(key, defaultValue string) string {
	if s, ok := c.GetOption(key, defaultValue).(string); ok {
		return s
	}
	return defaultValue
}

// GetIntOption retrieves an integer option
func (c *BaseConnector) GetIntOption(key string, defaultValue int) int {
	switch v := c.GetOption(key, defaultValue).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultValue
}

// GetFloatOption retrieves a float option
func (c *BaseConnector) GetFloatOption(key string, defaultValue float64) float64 {
	switch v := c.GetOption(key, defaultValue).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return defaultValue
}

// GetBoolOption retrieves a boolean option
func (c *BaseConnector) GetBoolOption(key string, defaultValue bool) bool {
	if b, ok := c.GetOption(key, defaultValue).(bool); ok {
		return b
	}
	return defaultValue
}

// GetCredential retrieves a credential value
func (c *BaseConnector) GetCredential(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.config == nil || c.config.Credentials == nil {
		return ""
	}
	return c.config.Credentials[key]
}

// GetEndpoint returns the configured endpoint override
func (c *BaseConnector) GetEndpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.config == nil {
		return ""
	}
	return c.config.Endpoint
}

// WithTimeout creates a context with the connector's configured timeout
func (c *BaseConnector) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.GetTimeout())
}
