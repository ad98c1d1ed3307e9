package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTPAddr)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
	if !cfg.Checkout.FreeShippingThreshold.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected threshold 5000, got %s", cfg.Checkout.FreeShippingThreshold)
	}
	if !cfg.Checkout.FlatShippingFee.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected fee 500, got %s", cfg.Checkout.FlatShippingFee)
	}
	if cfg.WishlistRemoveOnMove {
		t.Fatalf("expected wishlist entries to be kept on move by default")
	}
	if cfg.Storage.Enabled() {
		t.Fatalf("expected storage disabled without credentials")
	}
	if cfg.CartIdleTimeout != 30*time.Minute {
		t.Fatalf("expected 30m idle timeout, got %s", cfg.CartIdleTimeout)
	}
}

func TestValidateIdleTimeout(t *testing.T) {
	t.Setenv("CART_IDLE_MINUTES", "0")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("FREE_SHIPPING_THRESHOLD", "10000.50")
	t.Setenv("WISHLIST_REMOVE_ON_MOVE", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":9090" || cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.Kafka.Brokers)
	}
	if cfg.Checkout.FreeShippingThreshold.String() != "10000.5" {
		t.Fatalf("unexpected threshold %s", cfg.Checkout.FreeShippingThreshold)
	}
	if !cfg.WishlistRemoveOnMove {
		t.Fatalf("expected remove-on-move override")
	}
}

func TestFromEnvRejectsBadAmounts(t *testing.T) {
	t.Setenv("FLAT_SHIPPING_FEE", "abc")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidateNegativeFee(t *testing.T) {
	t.Setenv("FLAT_SHIPPING_FEE", "-1")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected validation error")
	}
}
