package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	ctopics "github.com/radieske/bet-slip-parser/pkg/contracts/topics"
)

// Config centraliza variáveis de ambiente e parâmetros de execução dos serviços
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string // ex: "slip-parser-service", "slip-parser-worker"
	LogLevel    string // debug | info | warn | error

	RedisAddr    string
	KafkaBrokers string // "a:9092,b:9092"

	// Tópicos/canais
	TopicSlipOCRText    string
	TopicSlipParsed     string
	TopicSlipOCRTextDLQ string
	ConsumerGroup       string
	RedisPubSubChannel  string

	// Simulador de OCR
	SimulatorInterval time.Duration

	// Portas do serviço atual
	HTTPPort    string // Porta pública (ex.: API REST)
	MetricsPort string // Porta exclusiva para /metrics e /healthz
}

// Load carrega o .env (se existir) e as variáveis de ambiente, com defaults por serviço.
// defaultService vale quando SERVICE_NAME não está definido.
func Load(defaultService string) Config {
	// variáveis já definidas no ambiente têm prioridade sobre o .env
	_ = godotenv.Load()

	svc := getEnv("SERVICE_NAME", defaultService)
	env := getEnv("ENV", "local")

	cfg := Config{
		Env:         env,
		ServiceName: svc,
		LogLevel:    getEnv("LOG_LEVEL", ""),

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		TopicSlipOCRText:    getEnv("KAFKA_TOPIC_SLIP_OCR_TEXT", ctopics.SlipOCRText),
		TopicSlipParsed:     getEnv("KAFKA_TOPIC_SLIP_PARSED", ctopics.SlipParsed),
		TopicSlipOCRTextDLQ: getEnv("KAFKA_TOPIC_SLIP_OCR_TEXT_DLQ", ctopics.SlipOCRTextDLQ),
		ConsumerGroup:       getEnv("KAFKA_CONSUMER_GROUP", "slip-parser"),

		RedisPubSubChannel: getEnv("REDIS_PUBSUB_CHANNEL", "slip_parsed_broadcast"),

		SimulatorInterval: getDuration("SIMULATOR_INTERVAL", 5*time.Second),
	}

	// Define portas padrão para cada serviço
	switch svc {
	case "slip-parser-service":
		cfg.HTTPPort = getEnv("HTTP_PORT", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9095")
	case "slip-parser-worker":
		cfg.HTTPPort = getEnv("HTTP_PORT_WORKER", "") // worker não expõe HTTP público
		cfg.MetricsPort = getEnv("METRICS_PORT_WORKER", "9097")
	case "slip-ocr-simulator":
		cfg.HTTPPort = getEnv("HTTP_PORT_SIMULATOR", "")
		cfg.MetricsPort = getEnv("METRICS_PORT_SIMULATOR", "9096")
	default:
		cfg.HTTPPort = getEnv("HTTP_PORT", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9095")
	}

	return cfg
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// getDuration aceita formatos do time.ParseDuration ("500ms", "5s"); valor inválido cai no default
func getDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
