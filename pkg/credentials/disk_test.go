package credentials_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/docctl/internal/models"
	"github.com/kubev2v/docctl/pkg/credentials"
)

var _ = Describe("DiskStore", func() {
	var (
		tmpDir string
		store  *credentials.DiskStore
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "credentials-test-*")
		Expect(err).NotTo(HaveOccurred())
		store = credentials.NewDiskStore(tmpDir)
	})

	AfterEach(func() {
		if tmpDir != "" {
			os.RemoveAll(tmpDir)
		}
	})

	Describe("Save and Load", func() {
		It("should save and load credentials", func() {
			creds := models.Credentials{
				SecretKeyPath: "/keys/service-account.json",
				DatabaseID:    "(default)",
			}

			err := store.Save(creds)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Exists()).To(BeTrue())

			loaded, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(*loaded).To(Equal(creds))
		})

		It("should overwrite existing credentials", func() {
			creds1 := models.Credentials{
				SecretKeyPath: "/keys/first.json",
				DatabaseID:    "(default)",
			}
			err := store.Save(creds1)
			Expect(err).NotTo(HaveOccurred())

			creds2 := models.Credentials{
				SecretKeyPath: "/keys/second.json",
				DatabaseID:    "orders",
			}
			err = store.Save(creds2)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.SecretKeyPath).To(Equal("/keys/second.json"))
			Expect(loaded.DatabaseID).To(Equal("orders"))
		})
	})

	Describe("Load", func() {
		It("should return ErrNotFound when no credentials exist", func() {
			_, err := store.Load()
			Expect(err).To(MatchError(credentials.ErrNotFound))
		})
	})

	Describe("Exists", func() {
		It("should return false when no credentials exist", func() {
			Expect(store.Exists()).To(BeFalse())
		})

		It("should return true after saving credentials", func() {
			creds := models.Credentials{
				SecretKeyPath: "/keys/service-account.json",
				DatabaseID:    "(default)",
			}
			err := store.Save(creds)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Exists()).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("should delete existing credentials", func() {
			creds := models.Credentials{
				SecretKeyPath: "/keys/service-account.json",
				DatabaseID:    "(default)",
			}
			err := store.Save(creds)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Exists()).To(BeTrue())

			err = store.Delete()
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Exists()).To(BeFalse())

			_, err = store.Load()
			Expect(err).To(MatchError(credentials.ErrNotFound))
		})

		It("should not error when deleting non-existent credentials", func() {
			err := store.Delete()
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("File permissions", func() {
		It("should create file with restrictive permissions", func() {
			creds := models.Credentials{
				SecretKeyPath: "/keys/service-account.json",
				DatabaseID:    "(default)",
			}
			err := store.Save(creds)
			Expect(err).NotTo(HaveOccurred())

			filePath := filepath.Join(tmpDir, "credentials.json")
			info, err := os.Stat(filePath)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0600)))
		})
	})

	Describe("Data folder creation", func() {
		It("should create nested directories if they don't exist", func() {
			nestedDir := filepath.Join(tmpDir, "nested", "data", "folder")
			nestedStore := credentials.NewDiskStore(nestedDir)

			creds := models.Credentials{
				SecretKeyPath: "/keys/service-account.json",
				DatabaseID:    "(default)",
			}
			err := nestedStore.Save(creds)
			Expect(err).NotTo(HaveOccurred())

			_, err = os.Stat(nestedDir)
			Expect(err).NotTo(HaveOccurred())
		})
	})
	Describe("Validation", func() {
		It("should refuse to save an empty key path", func() {
			err := store.Save(models.Credentials{DatabaseID: "orders"})
			Expect(err).To(HaveOccurred())
			Expect(store.Exists()).To(BeFalse())
		})

		It("should leave only the credentials file behind", func() {
			Expect(store.Save(models.Credentials{SecretKeyPath: "/keys/a.json"})).To(Succeed())
			Expect(store.Save(models.Credentials{SecretKeyPath: "/keys/b.json"})).To(Succeed())

			entries, err := os.ReadDir(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Name()).To(Equal("credentials.json"))
		})

		It("should report a corrupted record", func() {
			Expect(os.WriteFile(filepath.Join(tmpDir, "credentials.json"), []byte("{"), 0o600)).To(Succeed())

			_, err := store.Load()
			Expect(err).To(HaveOccurred())
			Expect(err).NotTo(MatchError(credentials.ErrNotFound))
		})

		It("should treat a record without a key path as missing", func() {
			Expect(os.WriteFile(filepath.Join(tmpDir, "credentials.json"), []byte(`{"database_id": "orders"}`), 0o600)).To(Succeed())

			_, err := store.Load()
			Expect(err).To(MatchError(credentials.ErrNotFound))
		})
	})
})
