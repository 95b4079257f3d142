package k8s

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/Taishi66/podtree/internal/domain"
)

// Client wraps a dynamic client and connection metadata.
// It implements domain.PodSource.
type Client struct {
	dynamic        dynamic.Interface
	config         *rest.Config
	kubeconfigPath string
	context        string
	serverURL      string
	namespace      string
}

// Compile-time check that Client implements domain.PodSource.
var _ domain.PodSource = (*Client)(nil)

// --- ClusterInfo implementation ---

func (c *Client) GetContext() string     { return c.context }
func (c *Client) GetServerURL() string   { return c.serverURL }
func (c *Client) GetNamespace() string   { return c.namespace }
func (c *Client) SetNamespace(ns string) { c.namespace = ns }

// NewClient creates a client from kubeconfig. An empty namespace selects the
// namespace of the current context.
func NewClient(namespace string) (*Client, error) {
	kubeconfigPath := os.Getenv("KUBECONFIG")
	if kubeconfigPath == "" {
		home, _ := os.UserHomeDir()
		kubeconfigPath = filepath.Join(home, ".kube", "config")
	}

	if _, err := os.Stat(kubeconfigPath); os.IsNotExist(err) {
		return nil, &domain.APIError{
			Type:    domain.ErrNoKubeconfig,
			Message: fmt.Sprintf("No kubeconfig found.\nLog in to a cluster first (kubectl config / oc login).\n\nLooked in: %s", kubeconfigPath),
			Err:     err,
		}
	}

	loadingRules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfigPath}
	configOverrides := &clientcmd.ConfigOverrides{}
	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, configOverrides)

	rawConfig, err := kubeConfig.RawConfig()
	if err != nil {
		return nil, &domain.APIError{
			Type:    domain.ErrBadKubeconfig,
			Message: fmt.Sprintf("Invalid kubeconfig: %v", err),
			Err:     err,
		}
	}

	if rawConfig.CurrentContext == "" {
		return nil, &domain.APIError{
			Type:    domain.ErrNoContext,
			Message: "No current context in kubeconfig.\nUse: kubectl config use-context <ctx>",
		}
	}

	restConfig, err := kubeConfig.ClientConfig()
	if err != nil {
		return nil, &domain.APIError{
			Type:    domain.ErrBadKubeconfig,
			Message: fmt.Sprintf("Cannot build client config: %v", err),
			Err:     err,
		}
	}

	// Optimize for snappy TUI
	restConfig.QPS = 50
	restConfig.Burst = 100
	restConfig.Timeout = 10 * time.Second

	dyn, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, &domain.APIError{
			Type:    domain.ErrUnknown,
			Message: fmt.Sprintf("Cannot create K8s client: %v", err),
			Err:     err,
		}
	}

	if namespace == "" {
		namespace, _, _ = kubeConfig.Namespace()
	}
	if namespace == "" {
		namespace = "default"
	}

	serverURL := ""
	if ctx, ok := rawConfig.Contexts[rawConfig.CurrentContext]; ok {
		if clusterInfo, ok := rawConfig.Clusters[ctx.Cluster]; ok {
			serverURL = clusterInfo.Server
		}
	}

	return &Client{
		dynamic:        dyn,
		config:         restConfig,
		kubeconfigPath: kubeconfigPath,
		context:        rawConfig.CurrentContext,
		serverURL:      serverURL,
		namespace:      namespace,
	}, nil
}

// Reconnect reloads the kubeconfig from disk and recreates the client,
// keeping the selected namespace.
func (c *Client) Reconnect() error {
	newClient, err := NewClient(c.namespace)
	if err != nil {
		return err
	}
	c.dynamic = newClient.dynamic
	c.config = newClient.config
	c.context = newClient.context
	c.serverURL = newClient.serverURL
	return nil
}

// TestConnection makes a lightweight API call to verify connectivity.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.dynamic.Resource(podsResource).Namespace(c.namespace).List(ctx, listOptions(1))
	return classifyError(err, c.serverURL)
}

// classifyError converts a raw K8s error into a domain.APIError.
func classifyError(err error, serverURL string) error {
	if err == nil {
		return nil
	}

	var statusErr *k8serrors.StatusError
	if errors.As(err, &statusErr) {
		code := statusErr.Status().Code
		switch {
		case code == http.StatusUnauthorized:
			loginCmd := "oc login"
			if serverURL != "" {
				loginCmd = fmt.Sprintf("oc login %s", serverURL)
			}
			return &domain.APIError{
				Type:    domain.ErrTokenExpired,
				Message: fmt.Sprintf("Session expired. Log in again:\n  %s\nThen press 'r' to reconnect", loginCmd),
				Err:     err,
			}
		case code == http.StatusForbidden:
			return &domain.APIError{
				Type:    domain.ErrForbidden,
				Message: statusErr.Status().Message,
				Err:     err,
			}
		case code == http.StatusNotFound:
			return &domain.APIError{
				Type:    domain.ErrNotFound,
				Message: statusErr.Status().Message,
				Err:     err,
			}
		case code == http.StatusTooManyRequests:
			return &domain.APIError{
				Type:    domain.ErrRateLimited,
				Message: "Too many requests. Backing off...",
				Err:     err,
			}
		case code >= 500:
			return &domain.APIError{
				Type:    domain.ErrServerError,
				Message: fmt.Sprintf("Server error (%d). Retry with 'r'.", code),
				Err:     err,
			}
		}
	}

	errStr := err.Error()
	if strings.Contains(errStr, "x509") || strings.Contains(errStr, "certificate") || strings.Contains(errStr, "tls") {
		return &domain.APIError{
			Type:    domain.ErrTLS,
			Message: fmt.Sprintf("Invalid TLS certificate for %s.\nCheck your kubeconfig.", serverURL),
			Err:     err,
		}
	}

	if strings.Contains(errStr, "dial tcp") || strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return &domain.APIError{
			Type:    domain.ErrUnreachable,
			Message: fmt.Sprintf("Cluster unreachable: %s\n%v", serverURL, err),
			Err:     err,
		}
	}

	return &domain.APIError{
		Type:    domain.ErrUnknown,
		Message: err.Error(),
		Err:     err,
	}
}
