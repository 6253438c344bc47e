package config

import (
	"bytes"
	"text/template"
)

var configFileTmpl = template.Must(template.New("config").Parse(`# Genesis server configuration

# The name of the server.
name: "{{ .Name }}"

# Logging configuration.
log:
  # Log format to use. Valid values are "json", "logfmt", and "text".
  format: "{{ .Log.Format }}"
  # Time format for the log "timestamp" field.
  # Should be described in Golang's time format.
  time_format: "{{ .Log.TimeFormat }}"
  # Path to the log file. Leave empty to write to stderr.
  #path: "{{ .Log.Path }}"

# The HTTP server configuration.
http:
  # The address on which the HTTP server will listen.
  listen_addr: "{{ .HTTP.ListenAddr }}"

  # The public URL of the HTTP server.
  # This is used as the issuer of bearer tokens.
  public_url: "{{ .HTTP.PublicURL }}"

  # Mark cookies as Secure. Enable when served over HTTPS.
  secure_cookies: {{ .HTTP.SecureCookies }}

  # CORS configuration.
  cors:
    allowed_headers:{{ range .HTTP.CORS.AllowedHeaders }}
      - "{{ . }}"{{ end }}
    allowed_origins:{{ range .HTTP.CORS.AllowedOrigins }}
      - "{{ . }}"{{ end }}
    allowed_methods:{{ range .HTTP.CORS.AllowedMethods }}
      - "{{ . }}"{{ end }}

# The database configuration.
db:
  # The database driver to use.
  # Valid values are "sqlite" and "postgres".
  driver: "{{ .DB.Driver }}"
  # The database data source name.
  # This is driver specific and can be a file path or connection string.
  # Make sure foreign key support is enabled when using SQLite.
  data_source: "{{ .DB.DataSource }}"

# Credential configuration.
auth:
  # The signing secret. Prefer the GENESIS_AUTH_SECRET environment variable.
  # When unset, a random secret is generated on every start and all
  # sessions are invalidated by a restart.
  #secret: ""
  # Lifetime of a session cookie.
  session_ttl: "{{ .Auth.SessionTTL }}"
  # Lifetime of the cookie remembering a pending login.
  pending_ttl: "{{ .Auth.PendingTTL }}"
  # Lifetime of bearer tokens issued to API clients.
  bearer_ttl: "{{ .Auth.BearerTTL }}"
  # Lifetime of a one-time login code.
  code_ttl: "{{ .Auth.CodeTTL }}"

# Login code delivery.
mail:
  # The delivery driver. Valid values are "log" and "resend".
  driver: "{{ .Mail.Driver }}"
  # The sender address.
  from: "{{ .Mail.From }}"
  # The Resend API endpoint.
  endpoint: "{{ .Mail.Endpoint }}"
  # The Resend API key. Prefer the GENESIS_MAIL_API_KEY environment variable.
  #api_key: ""

# Membership plans.
plans:
  # Number of trees a free member can own.
  free_tree_limit: {{ .Plans.FreeTreeLimit }}

# The stats server configuration.
stats:
  # The address on which the stats server will listen.
  listen_addr: "{{ .Stats.ListenAddr }}"

# Cron job schedules.
jobs:
  # Remove expired login codes.
  purge_login_codes: "{{ .Jobs.PurgeLoginCodes }}"
`))

func newConfigFile(cfg *Config) string {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var b bytes.Buffer
	configFileTmpl.Execute(&b, cfg) // nolint: errcheck

	return b.String()
}
