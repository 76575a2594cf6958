package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP:    HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{Path: "listings.csv"},
		Ranking: RankingConfig{Alpha: 0.4, Beta: 0.3, Gamma: 0.3, TopK: 10, DefaultMode: "bias_aware"},
	}
}

func TestValidate_InvalidBudgetAction(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding = EmbeddingConfig{
		APIKey: "test-key",
		Budget: BudgetConfig{
			DailyTokenLimit: 1000000,
			Action:          "invalid_action",
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}

	expected := `embedding.budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	validActions := []string{"", "warn", "reject"}

	for _, action := range validActions {
		t.Run("action="+action, func(t *testing.T) {
			cfg := validConfig()
			cfg.Embedding = EmbeddingConfig{
				APIKey: "test-key",
				Budget: BudgetConfig{Action: action},
			}

			err := cfg.Validate()
			if err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingCatalogPath(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.Path = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing catalog path")
	}
}

func TestValidate_UnknownDefaultMode(t *testing.T) {
	cfg := validConfig()
	cfg.Ranking.DefaultMode = "smart"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown default mode")
	}
}

func TestValidate_NegativeWeights(t *testing.T) {
	cfg := validConfig()
	cfg.Ranking.Beta = -0.1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative fusion weight")
	}

	cfg = validConfig()
	cfg.Value = ValueConfig{DiscountWeight: 0.4, BrandWeight: -0.2, MaterialWeight: 0.2, ConditionWeight: 0.2}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative value weight")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Storage.KeyPrefix != "stylerank:" {
		t.Errorf("expected KeyPrefix='stylerank:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("expected default embedding model, got %q", cfg.Embedding.Model)
	}
	if cfg.Ranking.Alpha != 0.4 || cfg.Ranking.Beta != 0.3 || cfg.Ranking.Gamma != 0.3 {
		t.Errorf("expected default fusion weights 0.4/0.3/0.3, got %v/%v/%v",
			cfg.Ranking.Alpha, cfg.Ranking.Beta, cfg.Ranking.Gamma)
	}
	if cfg.Ranking.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Ranking.TopK)
	}
	if cfg.Ranking.DefaultMode != "bias_aware" {
		t.Errorf("expected DefaultMode='bias_aware', got %q", cfg.Ranking.DefaultMode)
	}
	if cfg.Value.DiscountWeight != 0.4 || cfg.Value.BrandWeight != 0.2 {
		t.Errorf("expected default value weights, got %v/%v", cfg.Value.DiscountWeight, cfg.Value.BrandWeight)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{ReadinessTimeout: 15},
		Ranking:  RankingConfig{Alpha: 0.5, Beta: 0.25, Gamma: 0.25, TopK: 50, DefaultMode: "naive"},
		Storage:  StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Ranking.Alpha != 0.5 || cfg.Ranking.TopK != 50 {
		t.Errorf("expected ranking settings preserved, got alpha=%v topK=%d", cfg.Ranking.Alpha, cfg.Ranking.TopK)
	}
	if cfg.Ranking.DefaultMode != "naive" {
		t.Errorf("expected DefaultMode='naive', got %q", cfg.Ranking.DefaultMode)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestScoreTables_Overrides(t *testing.T) {
	cfg := validConfig()
	cfg.Value.BrandScores = map[string]float64{"Acme": 0.9}

	tables := cfg.ScoreTables()
	if tables.Brand["Acme"] != 0.9 {
		t.Errorf("expected configured brand table, got %v", tables.Brand)
	}
	if len(tables.Brand) != 1 {
		t.Errorf("configured table should replace the built-in one, got %d entries", len(tables.Brand))
	}
	if tables.Material["leather"] != 0.9 {
		t.Errorf("expected built-in material table, got %v", tables.Material)
	}
	if tables.Condition["like new"] != 0.95 {
		t.Errorf("expected built-in condition table, got %v", tables.Condition)
	}
}

func TestVocabularies_Defaults(t *testing.T) {
	cfg := validConfig()

	colors, categories, styles, conditions := cfg.Vocabularies()
	if len(colors) == 0 || len(categories) == 0 || len(styles) == 0 || len(conditions) == 0 {
		t.Fatal("expected built-in vocabularies when config has none")
	}

	cfg.Vocab.Colors = []string{"chartreuse"}
	colors, _, _, _ = cfg.Vocabularies()
	if len(colors) != 1 || colors[0] != "chartreuse" {
		t.Errorf("expected configured colors, got %v", colors)
	}
}
