// internal/builder/shells.go
package builder

// Built-in page shells. They are composed like any control template.

const projectShell = `import { Metadata } from 'next';
import ProjectUI from './ProjectUI';

export const metadata: Metadata = {
    title: '{{ META_TITLE }}',
    description: '{{ META_DESCRIPTION }}'
};

export default function Page() {
    return <ProjectUI />;
}
`

const registerShell = `import { Metadata } from 'next';
import RegistrationUI from './RegistrationUI';

export const metadata: Metadata = {
  title: 'Register - {{ PROJECT_NAME }}',
  description: 'Create your account for {{ PROJECT_NAME }}',
};

export default function RegisterPage() {
  return <RegistrationUI />;
}
`

const dashboardShell = `import { Metadata } from 'next';
import DashboardUI from './DashboardUI';

export const metadata: Metadata = {
  title: 'Dashboard - {{ PROJECT_NAME }}',
  description: 'Manage your {{ PROJECT_NAME }} account',
};

export default function DashboardPage() {
  return <DashboardUI />;
}
`

const siteConfigTemplate = `import { initializeApp, getApps, getApp } from "firebase/app";
import { getAuth } from "firebase/auth";
import { getFirestore } from "firebase/firestore";

const firebaseConfig = {
  apiKey: "{{ FIREBASE_API_KEY }}",
  authDomain: "{{ FIREBASE_AUTH_DOMAIN }}",
  projectId: "{{ FIREBASE_PROJECT_ID }}",
  storageBucket: "{{ FIREBASE_STORAGE_BUCKET }}",
  messagingSenderId: "{{ FIREBASE_MESSAGING_SENDER_ID }}",
  appId: "{{ FIREBASE_APP_ID }}"
};

const app = !getApps().length ? initializeApp(firebaseConfig) : getApp();
const auth = getAuth(app);
const db = getFirestore(app);

export { auth, db };
`
