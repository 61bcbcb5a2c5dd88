package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/turnario/turnario/pkg/logger"
)

// DefaultTimeout 求解调用的硬超时
const DefaultTimeout = 35 * time.Second

// HTTPGateway 通过 HTTP 调用外部求解服务
// 每次调用只尝试一次，超时和失败一律映射为 error 结果，重试由上层决定
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPGateway 创建 HTTP 求解网关
func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Solve 发起一次求解请求
// 传输、解析、HTTP 状态错误都折叠进 Result{Status: error}，err 仅用于编码失败等本地问题
func (g *HTTPGateway) Solve(ctx context.Context, in *Input) (*Result, error) {
	log := logger.NewGenerationLogger()
	log.SolverStart(in.WeekStart, len(in.Slots), len(in.Employees))
	started := time.Now()

	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("序列化求解请求失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/solve", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("构造求解请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		result := errorResult(fmt.Sprintf("solver request failed: %v", err))
		log.SolverDone(string(result.Status), 0, time.Since(started))
		return result, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result := errorResult(fmt.Sprintf("solver returned HTTP %d", resp.StatusCode))
		log.SolverDone(string(result.Status), 0, time.Since(started))
		return result, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		result := errorResult(fmt.Sprintf("read solver response: %v", err))
		log.SolverDone(string(result.Status), 0, time.Since(started))
		return result, nil
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		r := errorResult(fmt.Sprintf("parse solver response: %v", err))
		log.SolverDone(string(r.Status), 0, time.Since(started))
		return r, nil
	}
	if _, err := ParseStatus(string(result.Status)); err != nil {
		r := errorResult(fmt.Sprintf("unknown solver status %q", result.Status))
		log.SolverDone(string(r.Status), 0, time.Since(started))
		return r, nil
	}

	log.SolverDone(string(result.Status), len(result.Shifts), time.Since(started))
	return &result, nil
}

func errorResult(msg string) *Result {
	return &Result{Status: StatusError, Error: msg}
}
