package controller

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	backupv1alpha1 "github.com/GreedyKomodoDragon/table-backup-operator/api/v1alpha1"
)

// Credentials is a static AWS key pair
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// HasCredentialsSecret returns true if the resource names a credentials secret
func HasCredentialsSecret(tb *backupv1alpha1.TableBackup) bool {
	return tb.Spec.AWS.CredentialsSecret != ""
}

// LoadCredentials reads the key pair from the resource's credentials secret.
// Without a secret the zero value is returned and the default AWS chain applies.
func LoadCredentials(ctx context.Context, c client.Reader, tb *backupv1alpha1.TableBackup) (Credentials, error) {
	if !HasCredentialsSecret(tb) {
		return Credentials{}, nil
	}

	secret := &corev1.Secret{}
	key := types.NamespacedName{Name: tb.Spec.AWS.CredentialsSecret, Namespace: tb.Namespace}
	if err := c.Get(ctx, key, secret); err != nil {
		return Credentials{}, fmt.Errorf("failed to get credentials secret %s: %w", key.Name, err)
	}

	creds := Credentials{
		AccessKeyID:     string(secret.Data[AccessKeyIDKey]),
		SecretAccessKey: string(secret.Data[SecretAccessKeyKey]),
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return Credentials{}, fmt.Errorf("credentials secret %s must contain %s and %s", key.Name, AccessKeyIDKey, SecretAccessKeyKey)
	}
	return creds, nil
}
