package constants

// 身份来源常量
const (
	IdentityProviderLocal = "local"
)

// 用户仓库类型常量
const (
	RepositoryTypeJSON     = "json"
	RepositoryTypePostgres = "postgres"
)

// 默认值
const (
	DefaultUserJSONPath    = "users.json"
	DefaultTokenExpireHour = 12
	TokenTypeBearer        = "bearer"
)

// CI 环境变量
const (
	EnvCI            = "CI"
	EnvGithubActions = "GITHUB_ACTIONS"
)
