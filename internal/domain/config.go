package domain

type Config struct {
	FQDN       string `yaml:"fqdn"`
	SiteName   string `yaml:"sitename"`
	AuthSecret string `yaml:"authsecret"`
}
