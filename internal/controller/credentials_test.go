package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestLoadCredentialsWithoutSecret(t *testing.T) {
	env := setupTest(t, createdAt)

	creds, err := LoadCredentials(context.Background(), env.client, newTableBackup())
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, creds)
}

func TestLoadCredentialsIncompleteSecret(t *testing.T) {
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: testSecretName, Namespace: testNamespace},
		Data:       map[string][]byte{AccessKeyIDKey: []byte("AKIATEST")},
	}
	env := setupTest(t, createdAt, secret)
	tb := newTableBackup()
	tb.Spec.AWS.CredentialsSecret = testSecretName

	_, err := LoadCredentials(context.Background(), env.client, tb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), SecretAccessKeyKey)
}
