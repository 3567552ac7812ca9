package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Script is a scripted navigation session.
//
//	session: demo
//	base_url: https://app.example/
//	steps:
//	  - navigate: /home
//	    state: {tab: 1}
//	  - navigate: /slow
//	    delay: 50ms
//	  - navigate: /broken
//	    fail: backend unavailable
//	  - back: true
//	  - traverse: 0
//	  - update: true
//	    state: {tab: 2}
type Script struct {
	Session string `yaml:"session"`
	BaseURL string `yaml:"base_url"`
	Steps   []Step `yaml:"steps"`
}

// Step is one operation. Exactly one of the operation fields must be set.
type Step struct {
	Navigate string `yaml:"navigate"`
	Replace  string `yaml:"replace"`
	Back     bool   `yaml:"back"`
	Forward  bool   `yaml:"forward"`
	Reload   bool   `yaml:"reload"`
	Traverse *int   `yaml:"traverse"`
	Update   bool   `yaml:"update"`

	State any `yaml:"state"`

	// Delay and Fail intercept the navigation with a handler that sleeps
	// for Delay and then fails with Fail, if set.
	Delay time.Duration `yaml:"delay"`
	Fail  string        `yaml:"fail"`
}

var errEmptyScript = errors.New("script has no steps")

// Op names the step's operation.
func (s Step) Op() string {
	switch {
	case s.Navigate != "":
		return "navigate"
	case s.Replace != "":
		return "replace"
	case s.Back:
		return "back"
	case s.Forward:
		return "forward"
	case s.Reload:
		return "reload"
	case s.Traverse != nil:
		return "traverse"
	case s.Update:
		return "update"
	}
	return ""
}

func (s Step) intercepts() bool {
	return s.Delay > 0 || s.Fail != ""
}

func (s Step) validate() error {
	n := 0
	for _, set := range []bool{
		s.Navigate != "", s.Replace != "", s.Back, s.Forward,
		s.Reload, s.Traverse != nil, s.Update,
	} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return errors.New("no operation")
	case n > 1:
		return errors.New("more than one operation")
	case s.Update && s.intercepts():
		return errors.New("update cannot be intercepted")
	case s.Delay < 0:
		return errors.New("negative delay")
	}
	return nil
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, errEmptyScript
	}
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &sc, nil
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}
