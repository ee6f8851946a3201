package traefik

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// entry is the certificate record stored per resolver in acme.json.
type entry struct {
	Certificate string `json:"certificate"`
	Key         string `json:"key"`
}

// GetCertFromTraefik extracts the certificate for domain from a traefik
// acme.json file.
func GetCertFromTraefik(file, domain string) (tls.Certificate, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return tls.Certificate{}, err
	}
	return parseCertificate(string(data), domain)
}

func parseCertificate(jsonData, domain string) (tls.Certificate, error) {
	certData, keyData, err := lookupDomain(jsonData, domain)
	if err != nil {
		return tls.Certificate{}, err
	}
	certPEM, err := base64.StdEncoding.DecodeString(certData)
	if err != nil {
		return tls.Certificate{}, err
	}
	keyPEM, err := base64.StdEncoding.DecodeString(keyData)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.X509KeyPair(certPEM, keyPEM)
}

// lookupDomain finds the base64 encoded cert and key for domain. The
// resolver name is not known in advance, so the search covers all top
// level entries.
func lookupDomain(jsonData, domain string) (cert, key string, err error) {
	obj, err := oj.ParseString(jsonData)
	if err != nil {
		return "", "", err
	}

	jPath := fmt.Sprintf(`$..Certificates[?(@.domain.main == %q)]`, domain)
	path, err := jp.ParseString(jPath)
	if err != nil {
		return "", "", err
	}
	res := path.Get(obj)
	if len(res) == 0 {
		return "", "", fmt.Errorf("no certificate for domain %s", domain)
	}

	found := entry{}
	if err = oj.Unmarshal([]byte(oj.JSON(res[0])), &found); err != nil {
		return "", "", err
	}
	return found.Certificate, found.Key, nil
}
