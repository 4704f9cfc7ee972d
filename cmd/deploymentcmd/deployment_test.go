// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deploymentcmd

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ava-labs/libevm/common"
	"github.com/okeydokey/okeydokey-cli/internal/testutils"
	"github.com/okeydokey/okeydokey-cli/pkg/contract"
	"github.com/okeydokey/okeydokey-cli/pkg/deployments"
	"github.com/okeydokey/okeydokey-cli/pkg/evm"
	"github.com/okeydokey/okeydokey-cli/pkg/evm/mocks"
	"github.com/okeydokey/okeydokey-cli/pkg/orchestrator"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	godAddress       = common.HexToAddress("0x5DB9A7629912EBF95876228C24A848de0bfB43A9")
	okeyDokeyAddress = common.HexToAddress("0x0000000000000000000000000000000000000a11")
)

func testRecord() *deployments.Record {
	slot := int64(0)
	return &deployments.Record{
		Network:    "development",
		ChainID:    1337,
		From:       "0x929FFF0071a12d66b9d2A90f8c3A6699551E91e3",
		DeployedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Instances: []deployments.Instance{
			{Name: "OkeyDokeyGod", Address: godAddress.Hex(), BlockNumber: 3},
			{Name: "OkeyDokey", Address: okeyDokeyAddress.Hex(), BlockNumber: 4},
		},
		Links: []deployments.Link{
			{
				Registry: "OkeyDokeyGod",
				Setter:   "setContract(uint8,address)",
				Getter:   "getContract(uint8)->(address)",
				Slot:     &slot,
				Target:   "OkeyDokey",
				Required: true,
				Verified: true,
			},
		},
		Failures: []string{"Reviews: failed receipt status"},
	}
}

func setupApp(t *testing.T, withRecord bool) *require.Assertions {
	require := testutils.SetupTest(t)
	app = testutils.SetupTestInTempDir(t, nil)
	network = "development"
	if withRecord {
		require.NoError(app.Deployments().Save(testRecord()))
	}
	return require
}

func mockClient(t *testing.T) *mocks.MockEthClient {
	ctrl := gomock.NewController(t)
	eth := mocks.NewMockEthClient(ctrl)
	eth.EXPECT().Close().AnyTimes()
	old := getClient
	getClient = func(_ context.Context, rpcURL string) (evm.Client, error) {
		return evm.Client{EthClient: eth, URL: rpcURL}, nil
	}
	t.Cleanup(func() { getClient = old })
	return eth
}

func verifyCmd() *cobra.Command {
	cmd := newVerifyCmd()
	cmd.SetContext(context.Background())
	return cmd
}

func TestShowDeployment(t *testing.T) {
	_, out := testutils.SetupTestWithOutput(t)
	app = testutils.SetupTestInTempDir(t, nil)
	network = "development"
	require := require.New(t)
	require.NoError(app.Deployments().Save(testRecord()))

	require.NoError(showDeployment(nil, nil))
	require.Contains(out.String(), "chain id 1337")
	require.Contains(out.String(), godAddress.Hex())
	require.Contains(out.String(), okeyDokeyAddress.Hex())
	require.Contains(out.String(), "OkeyDokeyGod[0] -> OkeyDokey")
	require.Contains(out.String(), "Reviews: failed receipt status")
}

func TestShowDeploymentNoRecord(t *testing.T) {
	require := setupApp(t, false)
	require.ErrorIs(showDeployment(nil, nil), deployments.ErrNoRecord)
}

func TestVerifyDeployment(t *testing.T) {
	require := setupApp(t, true)
	eth := mockClient(t)
	eth.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(1337), nil)
	eth.EXPECT().CodeAt(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte{0x60}, nil).Times(2)
	eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(common.LeftPadBytes(okeyDokeyAddress.Bytes(), 32), nil)

	require.NoError(verifyDeployment(verifyCmd(), nil))
}

func TestVerifyDeploymentMismatch(t *testing.T) {
	require := setupApp(t, true)
	eth := mockClient(t)
	eth.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(1337), nil)
	eth.EXPECT().CodeAt(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte{0x60}, nil).Times(2)
	eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(common.LeftPadBytes(godAddress.Bytes(), 32), nil)

	require.ErrorIs(verifyDeployment(verifyCmd(), nil), orchestrator.ErrVerificationMismatch)
}

func TestVerifyDeploymentMissingCode(t *testing.T) {
	require := setupApp(t, true)
	eth := mockClient(t)
	eth.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(1337), nil)
	eth.EXPECT().CodeAt(gomock.Any(), godAddress, gomock.Any()).Return([]byte{0x60}, nil)
	eth.EXPECT().CodeAt(gomock.Any(), okeyDokeyAddress, gomock.Any()).Return(nil, nil)
	eth.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(common.LeftPadBytes(okeyDokeyAddress.Bytes(), 32), nil)

	require.ErrorIs(verifyDeployment(verifyCmd(), nil), contract.ErrNoCode)
}

func TestVerifyDeploymentOtherChain(t *testing.T) {
	require := setupApp(t, true)
	eth := mockClient(t)
	eth.EXPECT().ChainID(gomock.Any()).Return(big.NewInt(43114), nil)

	require.ErrorIs(verifyDeployment(verifyCmd(), nil), ErrChainMismatch)
}
