package application

import (
	"context"
	"strconv"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/seedelf-network/seedelf-wallet/pkg/ecies"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
	log "github.com/sirupsen/logrus"
)

type MessageService interface {
	// Inbox returns the messages sent along the UTxOs of the wallet.
	Inbox(ctx context.Context, session *domain.Session) ([]Message, error)
	// Seal encrypts a message to the register of a seedelf.
	Seal(ctx context.Context, tokenName, message string) (*ecies.Ciphertext, error)
}

type messageService struct {
	*engine
}

func NewMessageService(env Environment) (MessageService, error) {
	e, err := newEngine(env)
	if err != nil {
		return nil, err
	}
	return &messageService{e}, nil
}

func (m *messageService) Inbox(
	ctx context.Context, session *domain.Session,
) ([]Message, error) {
	utxos, err := m.walletUtxos(ctx)
	if err != nil {
		return nil, err
	}

	var owned []utxo.Utxo
	if err := session.WithKey(func(sk fr.Element) error {
		owned, _ = scanWallet(sk, utxos, m.Config.SeedelfPolicyID, 0)
		return nil
	}); err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return []Message{}, nil
	}

	byTx := make(map[string][]utxo.Utxo)
	txHashes := make([]string, 0)
	for _, u := range owned {
		if _, ok := byTx[u.TxHash]; !ok {
			txHashes = append(txHashes, u.TxHash)
		}
		byTx[u.TxHash] = append(byTx[u.TxHash], u)
	}

	metadata, err := m.Chain.TxMetadata(ctx, txHashes)
	if err != nil {
		return nil, err
	}

	label := strconv.FormatUint(ecies.MetadataLabel, 10)
	messages := make([]Message, 0)
	if err := session.WithKey(func(sk fr.Element) error {
		for _, md := range metadata {
			value, ok := md.Metadata[label]
			if !ok {
				continue
			}
			ciphertext, err := ecies.FromMetadatum(value)
			if err != nil {
				log.WithError(err).Debugf("skipping metadata of tx %s", md.TxHash)
				continue
			}
			for _, u := range byTx[md.TxHash] {
				reg, err := u.Register()
				if err != nil {
					continue
				}
				text, ok, err := ciphertext.Decrypt(sk, reg)
				if err != nil || !ok {
					continue
				}
				messages = append(messages, Message{
					Outpoint: u.Outpoint(),
					Text:     text,
				})
				break
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return messages, nil
}

func (m *messageService) Seal(
	ctx context.Context, tokenName, message string,
) (*ecies.Ciphertext, error) {
	if len(message) <= 0 {
		return nil, ErrEmptyMessage
	}
	utxos, err := m.walletUtxos(ctx)
	if err != nil {
		return nil, err
	}
	_, reg, err := findSeedelfUtxo(utxos, m.Config.SeedelfPolicyID, tokenName)
	if err != nil {
		return nil, err
	}
	return ecies.Encrypt(message, reg)
}
