package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	libOTP "github.com/pquerna/otp"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/migorithm/authotp/internal/pkg/clock"
	"github.com/migorithm/authotp/internal/pkg/config"
	"github.com/migorithm/authotp/internal/pkg/hash"
	"github.com/migorithm/authotp/internal/pkg/instrument"
	"github.com/migorithm/authotp/internal/pkg/messaging"
	"github.com/migorithm/authotp/internal/pkg/otp"
	"github.com/migorithm/authotp/internal/pkg/router"
	"github.com/migorithm/authotp/internal/pkg/uid"
	"github.com/migorithm/authotp/internal/pkg/validator"
)

const pubsubScope = "https://www.googleapis.com/auth/pubsub"

func (a *App) initConfig() error {
	cfg, err := config.NewViper(a.configPath)
	if err != nil {
		return err
	}

	a.config = cfg
	a.onClose("config", func(context.Context) error { return cfg.Close() })
	return nil
}

func (a *App) initInstrument() error {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		return err
	}

	a.ins = ins
	a.onClose("instrument", ins.Shutdown)
	return nil
}

func (a *App) initLibraries() error {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()

	credential, err := hash.NewFromDriver(a.config.GetString("hash.credential.driver"), hash.Options{
		Pepper:              a.config.GetString("hash.credential.pepper"),
		BcryptCost:          a.config.GetInt("hash.bcrypt.cost"),
		Argon2MaxConcurrent: a.config.GetInt("hash.argon2id.max_concurrent"),
	})
	if err != nil {
		return err
	}
	a.credential = credential

	v10, err := validator.NewV10Validator()
	if err != nil {
		return err
	}
	a.validator = v10

	a.totp = otp.NewTOTP(
		a.config.GetString("mfa.totp.issuer"),
		a.config.GetUint("mfa.totp.period"),
		a.config.GetUint("mfa.totp.skew"),
		a.config.GetUint("mfa.totp.secret_size"),
		libOTP.DigitsSix,
	)
	return nil
}

func (a *App) initMessaging() error {
	driver := strings.ToLower(strings.TrimSpace(a.config.GetString("messaging.driver")))

	opts := messaging.FactoryOptions{}
	switch driver {
	case messaging.DriverNSQ:
		producer := nsq.NewConfig()
		producer.DialTimeout = a.config.GetSecond("messaging.nsq.producer_config.dial_timeout_seconds")
		producer.ReadTimeout = a.config.GetSecond("messaging.nsq.producer_config.read_timeout_seconds")
		producer.WriteTimeout = a.config.GetSecond("messaging.nsq.producer_config.write_timeout_seconds")
		opts.NSQ = messaging.NSQConfig{
			ProducerAddr:   a.config.GetString("messaging.nsq.producer_addr"),
			ProducerConfig: producer,
		}
	case messaging.DriverNATS:
		opts.NATS = messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		}
	case messaging.DriverKafka:
		opts.Kafka = messaging.KafkaConfig{
			Brokers:      a.config.GetArray("messaging.kafka.brokers"),
			BatchTimeout: a.config.GetMillisecond("messaging.kafka.batch_timeout_ms"),
			RequiredAcks: kafka.RequiredAcks(a.config.GetInt("messaging.kafka.required_acks")),
		}
	case messaging.DriverGooglePubSub:
		clientOpts, err := a.pubsubClientOptions()
		if err != nil {
			return err
		}
		opts.PubSub = messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: clientOpts,
		}
	}

	client, err := messaging.NewFromDriver(a.ctx, driver, opts)
	if err != nil {
		return fmt.Errorf("driver %q: %w", driver, err)
	}

	a.messaging = client
	a.onClose("messaging", func(context.Context) error { return client.Close() })
	return nil
}

// pubsubClientOptions points the client at an emulator when an endpoint is
// set, and loads service account credentials when a file is set.
func (a *App) pubsubClientOptions() ([]option.ClientOption, error) {
	var opts []option.ClientOption

	if endpoint := strings.TrimSpace(a.config.GetString("messaging.pubsub.endpoint")); endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}

	if file := strings.TrimSpace(a.config.GetString("messaging.pubsub.credentials_file")); file != "" {
		// #nosec G304 -- path comes from the operator's config.
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read pubsub credentials: %w", err)
		}

		creds, err := google.CredentialsFromJSON(a.ctx, raw, pubsubScope)
		if err != nil {
			return nil, fmt.Errorf("parse pubsub credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	return opts, nil
}

func (a *App) initHTTPServer() error {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
		Name:       a.config.GetString("app.name"),
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   a.config.GetArray("app.server.cors"),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{router.HeaderCorrelationID},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           handler,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
		ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
	}
	return nil
}
