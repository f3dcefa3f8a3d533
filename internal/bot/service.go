package bot

import (
	"github.com/iamwavecut/ngmod/internal/i18n"
)

type service struct {
	platform Platform
	language string
}

func NewService(platform Platform, language string) *service {
	if language == "" {
		language = i18n.DefaultLanguage()
	}
	return &service{
		platform: platform,
		language: language,
	}
}

func (s *service) GetPlatform() Platform {
	return s.platform
}

func (s *service) GetLanguage() string {
	return s.language
}
