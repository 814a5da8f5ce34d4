package service

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// RegistrationPolicy governs registration completion.
type RegistrationPolicy struct {
	UsernamePattern   string   `yaml:"username_pattern"`
	DisposableDomains []string `yaml:"disposable_domains"`

	usernameRe *regexp.Regexp
	disposable map[string]struct{}
}

func DefaultRegistrationPolicy() *RegistrationPolicy {
	p := &RegistrationPolicy{
		UsernamePattern: `^[a-zA-Z0-9_]{3,20}$`,
		DisposableDomains: []string{
			"mailinator.com",
			"tempmail.com",
			"10minutemail.com",
			"guerrillamail.com",
			"yopmail.com",
			"getnada.com",
		},
	}
	if err := p.compile(); err != nil {
		panic(err)
	}
	return p
}

// LoadRegistrationPolicy reads a YAML policy file. Keys left out keep their
// defaults; an explicit empty disposable_domains list disables the check.
func LoadRegistrationPolicy(path string) (*RegistrationPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}

	p := DefaultRegistrationPolicy()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse policy %s: %w", path, err)
	}
	if err := p.compile(); err != nil {
		return nil, fmt.Errorf("policy %s: %w", path, err)
	}
	return p, nil
}

func (p *RegistrationPolicy) compile() error {
	re, err := regexp.Compile(p.UsernamePattern)
	if err != nil {
		return fmt.Errorf("username_pattern: %w", err)
	}
	p.usernameRe = re

	p.disposable = make(map[string]struct{}, len(p.DisposableDomains))
	for _, d := range p.DisposableDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			p.disposable[d] = struct{}{}
		}
	}
	return nil
}

func (p *RegistrationPolicy) ValidUsername(name string) bool {
	return p.usernameRe.MatchString(name)
}

// Disposable reports whether the email's domain is on the block list.
func (p *RegistrationPolicy) Disposable(email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return false
	}
	_, ok := p.disposable[strings.ToLower(strings.TrimSpace(email[at+1:]))]
	return ok
}
