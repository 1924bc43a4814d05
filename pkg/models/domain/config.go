package domain

import "fmt"

type ProfileType string

const (
	ProfileTypeDuckDB     ProfileType = "duckdb"
	ProfileTypeSnowflake  ProfileType = "snowflake"
	ProfileTypeDatabricks ProfileType = "databricks"
	ProfileTypeFile       ProfileType = "file"
)

type ConfigProfile struct {
	Name     string
	Type     ProfileType
	Settings map[string]string
}

func (c ConfigProfile) String() string {
	return fmt.Sprintf("%s:%s", c.Type, c.Name)
}

// Setting returns the value of key or fallback when the key is missing or blank.
func (c ConfigProfile) Setting(key, fallback string) string {
	if v, ok := c.Settings[key]; ok && v != "" {
		return v
	}
	return fallback
}
