package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load 加载配置，支持多环境
// base.yaml is read first, then <env>.yaml is merged over it. Values of the form
// ${VAR} are substituted from secrets.env and the process environment (the
// process environment wins). The merged document is decoded into out.
func Load(env, configDir string, out any) error {
	if configDir == "" {
		configDir = "config"
	}

	// .env 是可选的
	_ = godotenv.Load()

	baseConfig, err := loadYAMLFile(filepath.Join(configDir, "base.yaml"))
	if err != nil {
		return fmt.Errorf("failed to load base.yaml: %w", err)
	}

	envConfig := make(map[string]interface{})
	if env != "" && env != "base" {
		envFile := filepath.Join(configDir, fmt.Sprintf("%s.yaml", env))
		if _, err := os.Stat(envFile); err == nil {
			envConfig, err = loadYAMLFile(envFile)
			if err != nil {
				return fmt.Errorf("failed to load %s.yaml: %w", env, err)
			}
		}
	}

	merged := mergeMaps(baseConfig, envConfig)

	secrets := map[string]string{}
	secretsFile := filepath.Join(configDir, "secrets.env")
	if _, err := os.Stat(secretsFile); err == nil {
		secrets, err = godotenv.Read(secretsFile)
		if err != nil {
			return fmt.Errorf("failed to load secrets.env: %w", err)
		}
	}
	merged = substituteEnvVars(merged, secrets)

	// 重新编码后解码到目标结构体
	raw, err := yaml.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to re-encode config: %w", err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

func loadYAMLFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config map[string]interface{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	if config == nil {
		config = make(map[string]interface{})
	}

	return config, nil
}

// mergeMaps 合并两个 map，dst 会被 src 覆盖
func mergeMaps(dst, src map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for k, v := range dst {
		result[k] = v
	}

	for k, v := range src {
		if dstMap, ok := result[k].(map[string]interface{}); ok {
			if srcMap, ok := v.(map[string]interface{}); ok {
				result[k] = mergeMaps(dstMap, srcMap)
				continue
			}
		}
		result[k] = v
	}

	return result
}

func substituteEnvVars(config map[string]interface{}, secrets map[string]string) map[string]interface{} {
	result := make(map[string]interface{})
	for k, v := range config {
		switch val := v.(type) {
		case string:
			result[k] = substituteString(val, secrets)
		case map[string]interface{}:
			result[k] = substituteEnvVars(val, secrets)
		default:
			result[k] = v
		}
	}
	return result
}

// substituteString 替换字符串中的 ${VAR} 占位符
func substituteString(s string, secrets map[string]string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return secrets[key]
	})
}

// GetEnv 获取环境变量，如果未设置则返回默认值
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetConfigEnv 获取配置环境（从环境变量 CONFIG_ENV，默认为 local）
func GetConfigEnv() string {
	return GetEnv("CONFIG_ENV", "local")
}
