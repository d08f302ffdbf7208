package port

import (
	"net"
	"strconv"

	"github.com/pkg/errors"
)

// maxAttempts bounds how far past the configured port the search goes.
const maxAttempts = 100

func tryBind(host string, port int) error {
	listener, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return err
	}
	return listener.Close()
}

// FindAvailablePort 从 startPort 开始在 host 上找到一个可用的端口
func FindAvailablePort(host string, startPort int) (int, error) {
	if startPort < 0 || startPort > 65535 {
		return 0, errors.Errorf("port %d out of range", startPort)
	}
	var lastErr error
	for port := startPort; port <= 65535 && port < startPort+maxAttempts; port++ {
		if lastErr = tryBind(host, port); lastErr == nil {
			return port, nil
		}
	}
	return 0, errors.Wrapf(lastErr, "no free port on %s in [%d, %d)", host, startPort, startPort+maxAttempts)
}
