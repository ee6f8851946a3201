package utils

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"time"

	"github.com/simseed/simseed/log"
)

func WaitForTCP(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	start := time.Now()
	log.Debug("wait for tcp connection",
		log.String("addr", addr),
		log.String("timeout", timeout.String()))
	var d net.Dialer
	for time.Now().Before(deadline) {
		conn, err := d.DialContext(context.Background(), "tcp", addr)
		if err == nil {
			conn.Close()

			log.Debug("tcp connection successful",
				log.String("addr", addr),
				log.String("duration", time.Since(start).String()))
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("%s could not be reached after %v", addr, timeout)
}

func ExtractFromDBURL(url string) string {
	re := regexp.MustCompile(
		"^postgresql://(.*@)(?P<addr>(?P<host>.*?)(:(?P<port>\\d+))?)/.*")
	match := re.FindStringSubmatch(url)
	if len(match) == 0 {
		return ""
	}
	params := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i > 0 && i <= len(match) {
			params[name] = match[i]
		}
	}
	if port, ok := params["port"]; ok && port != "" {
		return params["addr"] // addr already carries the port
	}
	return fmt.Sprintf("%s:5432", params["addr"])
}
