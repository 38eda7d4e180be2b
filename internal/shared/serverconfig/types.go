package serverconfig

type Config struct {
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	GameServer GameServerConfig `yaml:"gameserver" mapstructure:"gameserver"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Logic      LogicConfig      `yaml:"logic" mapstructure:"logic"`
	JWTSecret  string           `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

// StorageConfig selects the kingdom repository implementation.
type StorageConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // "mysql" (default) or "mongodb"
}

type GameServerConfig struct {
	Host       string `yaml:"host" mapstructure:"host"`
	HTTPPort   int    `yaml:"http_port" mapstructure:"http_port"`
	WSPort     int    `yaml:"ws_port" mapstructure:"ws_port"`
	NeedSecret bool   `yaml:"need_secret" mapstructure:"need_secret"`
	IsDev      bool   `yaml:"is_dev" mapstructure:"is_dev"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type LogicConfig struct {
	JSONData      string `yaml:"json_data" mapstructure:"json_data"`
	ServerID      int    `yaml:"server_id" mapstructure:"server_id"`
	FlushEveryS   int    `yaml:"flush_every_s" mapstructure:"flush_every_s"`     // dirty-state flush cadence, default 30
	SimTickMs     int    `yaml:"sim_tick_ms" mapstructure:"sim_tick_ms"`         // completion/accrual tick, default 1000
	IdleTimeoutS  int    `yaml:"idle_timeout_s" mapstructure:"idle_timeout_s"`   // evict idle kingdom actors
	RetryCheckMs  int    `yaml:"retry_check_ms" mapstructure:"retry_check_ms"`   // envelope retry scan cadence, default 1000
	RetryResendMs int    `yaml:"retry_resend_ms" mapstructure:"retry_resend_ms"` // per-message retry interval, default 3000
}
