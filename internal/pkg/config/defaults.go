package config

// Defaults are applied before the config file is read so the service boots
// with a sane local setup when no file is present.
var Defaults = map[string]any{
	"app.name":                                            "authotp",
	"app.server.http.address":                             "0.0.0.0:3000",
	"app.server.http.read_timeout_seconds":                10,
	"app.server.http.read_header_timeout_seconds":         5,
	"app.server.http.write_timeout_seconds":               10,
	"app.server.http.idle_timeout_seconds":                60,
	"app.server.cors":                                     "*",
	"app.maintenance.endpoints":                           "",
	"instrument.enabled":                                  false,
	"instrument.service_name":                             "authotp",
	"instrument.service_version":                          "0.1.0",
	"instrument.env":                                      "local",
	"instrument.otlp_endpoint":                            "localhost:4317",
	"instrument.otlp_secure":                              false,
	"instrument.trace_sample_ratio":                       1.0,
	"instrument.metric_interval_seconds":                  15,
	"instrument.log_level":                                "info",
	"instrument.log_mask_fields":                          "credential,password,token,base32,otp_secret,qr_code,authorization",
	"hash.credential.driver":                              "bcrypt",
	"hash.credential.pepper":                              "",
	"hash.bcrypt.cost":                                    10,
	"hash.argon2id.max_concurrent":                        2,
	"mfa.totp.issuer":                                     "migorithm",
	"mfa.totp.period":                                     30,
	"mfa.totp.skew":                                       1,
	"mfa.totp.secret_size":                                21,
	"mfa.totp.qr_size":                                    200,
	"modules.account.enabled":                             true,
	"modules.account.route_prefix":                        "/auth",
	"modules.account.mfa.regenerate_resets_enabled":       false,
	"messaging.driver":                                    "noop",
	"messaging.nsq.producer_addr":                         "localhost:4150",
	"messaging.nsq.producer_config.dial_timeout_seconds":  5,
	"messaging.nsq.producer_config.read_timeout_seconds":  60,
	"messaging.nsq.producer_config.write_timeout_seconds": 5,
	"messaging.nats.url":                                  "nats://localhost:4222",
	"messaging.nats.name":                                 "authotp",
	"messaging.nats.max_reconnects":                       10,
	"messaging.nats.timeout_seconds":                      5,
	"messaging.nats.reconnect_wait_seconds":               2,
	"messaging.nats.retry_on_failed_connect":              true,
	"messaging.kafka.brokers":                             "localhost:9092",
	"messaging.kafka.batch_timeout_ms":                    10,
	"messaging.kafka.required_acks":                       -1,
	"messaging.pubsub.project_id":                         "",
	"messaging.pubsub.endpoint":                           "",
	"messaging.pubsub.credentials_file":                   "",
}

// EnvBindings maps config keys to extra environment variable names.
var EnvBindings = map[string]string{
	"app.server.http.address": "SERVER_IP_PORT",
}
