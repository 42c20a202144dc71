package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 表示熔断器状态
type State int

const (
	StateClosed   State = iota // 关闭：正常状态，允许请求通过
	StateOpen                  // 打开：熔断状态，直接拒绝请求
	StateHalfOpen              // 半开：尝试恢复，允许少量请求通过
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// ErrOpen is returned by Execute while the breaker rejects calls.
var ErrOpen = errors.New("circuit breaker is open")

// Config 熔断器配置
type Config struct {
	// 连续失败多少次后打开熔断器
	FailureThreshold int `yaml:"failure_threshold"`
	// 半开状态下成功多少次后关闭熔断器
	SuccessThreshold int `yaml:"success_threshold"`
	// 打开状态持续多久后进入半开状态
	Timeout time.Duration `yaml:"timeout"`
	// 半开状态下的最大并发请求数
	HalfOpenMaxRequests int `yaml:"half_open_max_requests"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		FailureThreshold:    5,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 3,
	}
}

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	config Config
	now    func() time.Time

	state         State
	failureCount  int
	successCount  int
	halfOpenCount int
	openedAt      time.Time

	mu sync.Mutex
}

// NewCircuitBreaker 创建新的熔断器
func NewCircuitBreaker(config Config) *CircuitBreaker {
	return &CircuitBreaker{
		config: config,
		now:    time.Now,
		state:  StateClosed,
	}
}

// Execute runs fn unless the breaker is open. fn's error counts as a failure.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.before(); err != nil {
		return err
	}

	err := fn()

	cb.after(err == nil)
	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.config.Timeout {
		cb.state = StateHalfOpen
		cb.halfOpenCount = 0
		cb.successCount = 0
	}

	switch cb.state {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if cb.halfOpenCount >= cb.config.HalfOpenMaxRequests {
			return ErrOpen
		}
		cb.halfOpenCount++
	}
	return nil
}

func (cb *CircuitBreaker) after(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.halfOpenCount--
		if !success {
			// 半开状态下失败，立即打开
			cb.trip()
			return
		}
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.state = StateClosed
			cb.failureCount = 0
		}
		return
	}

	if success {
		cb.failureCount = 0
		return
	}
	cb.failureCount++
	if cb.failureCount >= cb.config.FailureThreshold {
		cb.trip()
	}
}

func (cb *CircuitBreaker) trip() {
	cb.state = StateOpen
	cb.openedAt = cb.now()
	cb.failureCount = 0
	cb.successCount = 0
	cb.halfOpenCount = 0
}

// GetState 获取当前状态（线程安全）
func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset 重置熔断器
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failureCount = 0
	cb.successCount = 0
	cb.halfOpenCount = 0
}
