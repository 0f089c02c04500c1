package types

// ProjectConfig is the root of causeway.yaml.
type ProjectConfig struct {
	Store     StoreType       `yaml:"store" json:"store"`
	Redis     *RedisConfig    `yaml:"redis,omitempty" json:"redis,omitempty"`
	DynamoDB  *DynamoDBConfig `yaml:"dynamodb,omitempty" json:"dynamodb,omitempty"`
	Log       LogConfig       `yaml:"log" json:"log"`
	Notify    []NotifyConfig  `yaml:"notify,omitempty" json:"notify,omitempty"`
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty" json:"telemetry,omitempty"`
	Server    ServerConfig    `yaml:"server,omitempty" json:"server,omitempty"`

	// LockTTL bounds how long a finalization lock may be held before it
	// is considered abandoned. Duration string, default "30s".
	LockTTL string `yaml:"lockTTL,omitempty" json:"lockTTL,omitempty"`
}

// RedisConfig configures the Redis/Valkey store.
type RedisConfig struct {
	Addr      string `yaml:"addr" json:"addr"`
	Password  string `yaml:"password,omitempty" json:"password,omitempty"`
	DB        int    `yaml:"db,omitempty" json:"db,omitempty"`
	KeyPrefix string `yaml:"keyPrefix,omitempty" json:"keyPrefix,omitempty"`
}

// DynamoDBConfig configures the DynamoDB store.
type DynamoDBConfig struct {
	TableName   string `yaml:"tableName" json:"tableName"`
	Region      string `yaml:"region,omitempty" json:"region,omitempty"`
	Endpoint    string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	CreateTable bool   `yaml:"createTable,omitempty" json:"createTable,omitempty"`
}

// LogConfig configures the run log sink.
type LogConfig struct {
	Sink SinkType `yaml:"sink" json:"sink"`
	// Path is the log file path (file sink only).
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
	// LogGroup/LogStream identify the CloudWatch destination (cloudwatch sink only).
	LogGroup  string `yaml:"logGroup,omitempty" json:"logGroup,omitempty"`
	LogStream string `yaml:"logStream,omitempty" json:"logStream,omitempty"`
	Region    string `yaml:"region,omitempty" json:"region,omitempty"`
}

// NotifyConfig configures one notification sink.
type NotifyConfig struct {
	Type     NotifyType `yaml:"type" json:"type"`
	URL      string     `yaml:"url,omitempty" json:"url,omitempty"`
	Path     string     `yaml:"path,omitempty" json:"path,omitempty"`
	TopicARN string     `yaml:"topicARN,omitempty" json:"topicARN,omitempty"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr   string `yaml:"addr,omitempty" json:"addr,omitempty"`
	APIKey string `yaml:"apiKey,omitempty" json:"apiKey,omitempty"`
}
